package main

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/funktionslust/boxbulk"
	"github.com/funktionslust/boxbulk/boxapi"
	"github.com/funktionslust/boxbulk/tracker"

	"github.com/spf13/viper"
)

const (
	envPrefix      = "BOXBULK"
	configName     = "settings"
	configType     = "yaml"
	configDirName  = ".boxbulk"
	defaultTimeout = 30 * time.Second
)

// config is the whole CLI configuration. The settings file lives at
// $HOME/.boxbulk/settings.yaml and every key can be overridden by a BOXBULK_ environment
// variable, e.g. BOXBULK_API_TOKEN for api.token.
type config struct {
	Settings      boxbulk.Settings    `mapstructure:"settings"`
	API           apiConfig           `mapstructure:"api"`
	S3            s3Config            `mapstructure:"s3"`
	Elasticsearch elasticsearchConfig `mapstructure:"elasticsearch"`
	Tracker       trackerConfig       `mapstructure:"tracker"`
	Metrics       metricsConfig       `mapstructure:"metrics"`
}

type apiConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type s3Config struct {
	// Region enables s3:// bulk sources and report destinations.
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
	Bucket   string `mapstructure:"bucket"`
	ACL      string `mapstructure:"acl"`
}

type elasticsearchConfig struct {
	// ServerURL enables es:// report destinations.
	ServerURL   string `mapstructure:"server_url"`
	IndicesPath string `mapstructure:"indices_path"`
}

type trackerConfig struct {
	// Host enables the MySQL run history.
	Host           string `mapstructure:"host"`
	Port           string `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	CleanupOnStart bool   `mapstructure:"cleanup_on_start"`
	// StaleAfter is the age of another process' running run the cleanup takes for interrupted.
	StaleAfter time.Duration `mapstructure:"stale_after"`
}

type metricsConfig struct {
	// Textfile is the path the Prometheus metrics are written to once a command is done.
	Textfile string `mapstructure:"textfile"`
}

// defaults registers every key so that environment variables are honoured by Unmarshal.
var defaults = map[string]interface{}{
	"settings.auto_save":         false,
	"settings.report_format":     boxbulk.ReportFormatCSV.String(),
	"settings.reports_dir":       boxbulk.DefaultReportsDir,
	"settings.output_json":       false,
	"settings.page_size":         boxbulk.DefaultPageSize,
	"settings.no_color":          false,
	"api.base_url":               boxapi.DefaultBaseURL,
	"api.token":                  "",
	"api.timeout":                defaultTimeout,
	"s3.region":                  "",
	"s3.endpoint":                "",
	"s3.bucket":                  "",
	"s3.acl":                     "",
	"elasticsearch.server_url":   "",
	"elasticsearch.indices_path": "",
	"tracker.host":               "",
	"tracker.port":               "3306",
	"tracker.database":           "boxbulk",
	"tracker.user":               "",
	"tracker.password":           "",
	"tracker.cleanup_on_start":   false,
	"tracker.stale_after":        tracker.DefaultStaleAfter,
	"metrics.textfile":           "",
}

// newViper returns a viper instance reading the settings file from configFile or, if empty, from
// the .boxbulk directory of home.
func newViper(configFile, home string) *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(filepath.Join(home, configDirName))
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// loadConfig reads the settings file, if any, and decodes the configuration.
func loadConfig(v *viper.Viper) (*config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	cfg := &config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
