package main

import (
	"context"
	"fmt"
	"os"

	"github.com/funktionslust/boxbulk"
	"github.com/funktionslust/boxbulk/boxapi"
	"github.com/funktionslust/boxbulk/input"
	"github.com/funktionslust/boxbulk/metrics"
	"github.com/funktionslust/boxbulk/output"
	"github.com/funktionslust/boxbulk/tracker"

	"github.com/aws/aws-sdk-go/aws"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// app holds everything a command needs to talk to the remote API and to report its results.
type app struct {
	cfg     *config
	logger  *zap.Logger
	runner  *boxbulk.Runner
	client  *boxapi.Client
	history *tracker.MySQLTracker
	metrics *metrics.PrometheusTracker
}

// newApp builds the logger, the API client and the runner out of the configuration.
func newApp(ctx context.Context, cfg *config, debug bool) (*app, error) {
	logger, err := newLogger(debug)
	if err != nil {
		return nil, fmt.Errorf("logger error: %v", err)
	}
	a := &app{cfg: cfg, logger: logger}
	a.client, err = boxapi.NewClient(boxapi.Config{
		BaseURL: cfg.API.BaseURL,
		Token:   cfg.API.Token,
		Timeout: cfg.API.Timeout,
	}, logger)
	if err != nil {
		return nil, err
	}
	opts := []boxbulk.RunnerOpt{
		boxbulk.RunnerWithLogger(logger),
		boxbulk.RunnerWithInput(a.input()),
		boxbulk.RunnerWithOutput(a.output()),
		boxbulk.RunnerWithConsole(newConsole(cfg.Settings)),
	}
	if cfg.Tracker.Host != "" {
		a.history = tracker.NewMySQLTracker(tracker.MySQLTrackerConfig{
			Host:     cfg.Tracker.Host,
			Port:     cfg.Tracker.Port,
			Database: cfg.Tracker.Database,
			User:     cfg.Tracker.User,
			Password: cfg.Tracker.Password,
		}, tracker.GORMTrackerConfig{
			Logger:         gormlogger.Default.LogMode(gormLogLevel(debug)),
			CleanupOnStart: cfg.Tracker.CleanupOnStart,
			StaleAfter:     cfg.Tracker.StaleAfter,
		})
		opts = append(opts, boxbulk.RunnerWithTracker(a.history))
	}
	if cfg.Metrics.Textfile != "" {
		a.metrics = metrics.NewPrometheusTracker(metrics.DefaultNamespace, logger)
		opts = append(opts, boxbulk.RunnerWithMetricsTracker(a.metrics))
	}
	a.runner, err = boxbulk.NewRunner(ctx, cfg.Settings, opts...)
	if err != nil {
		a.client.Close()
		return nil, err
	}
	return a, nil
}

// Close shuts the storages down and writes the metrics textfile if configured.
func (a *app) Close() {
	a.runner.Shutdown()
	if err := a.client.Close(); err != nil {
		a.logger.Warn("api client close error", zap.Error(err))
	}
	if a.metrics != nil {
		if err := a.metrics.WriteToTextfile(a.cfg.Metrics.Textfile); err != nil {
			a.logger.Warn("metrics textfile error", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

// input routes s3:// bulk sources to S3 when a region is configured.
func (a *app) input() boxbulk.Input {
	routes := map[string]boxbulk.Input{}
	if a.cfg.S3.Region != "" {
		routes[input.S3Scheme] = input.NewS3Input(input.S3InputConfig{
			AwsCfg: a.awsConfig(),
			Bucket: a.cfg.S3.Bucket,
		})
	}
	return input.NewMux(boxbulk.NewFileInput(), routes)
}

// output routes s3:// and es:// report destinations when S3 and Elasticsearch are configured.
func (a *app) output() boxbulk.Output {
	routes := map[string]boxbulk.Output{}
	if a.cfg.S3.Region != "" {
		routes[output.S3Scheme] = output.NewS3Output(output.S3OutputConfig{
			AwsCfg: a.awsConfig(),
			ACL:    a.cfg.S3.ACL,
		})
	}
	if a.cfg.Elasticsearch.ServerURL != "" {
		routes[output.ElasticsearchScheme] = output.NewElasticsearchOutput(output.ElasticsearchOutputConfig{
			ServerURL:   a.cfg.Elasticsearch.ServerURL,
			IndicesPath: a.cfg.Elasticsearch.IndicesPath,
		})
	}
	return output.NewMux(boxbulk.NewFileOutput(), routes)
}

func (a *app) awsConfig() *aws.Config {
	cfg := aws.NewConfig().WithRegion(a.cfg.S3.Region)
	if a.cfg.S3.Endpoint != "" {
		cfg = cfg.WithEndpoint(a.cfg.S3.Endpoint).WithS3ForcePathStyle(true)
	}
	return cfg
}

// newLogger returns a production logger at warn level, or a development logger in debug mode.
func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func gormLogLevel(debug bool) gormlogger.LogLevel {
	if debug {
		return gormlogger.Info
	}
	return gormlogger.Silent
}

func newConsole(settings boxbulk.Settings) *boxbulk.Console {
	var opts []boxbulk.ConsoleOpt
	if settings.NoColor {
		opts = append(opts, boxbulk.ConsoleWithNoColor())
	}
	return boxbulk.NewConsole(os.Stdout, opts...)
}
