package boxbulk

import (
	"fmt"

	"github.com/go-playground/validator"
)

const (
	// DefaultPageSize is the number of entries fetched per page of a listing.
	DefaultPageSize = 100
	// DefaultReportsDir is the directory reports are saved to unless configured otherwise.
	DefaultReportsDir = "~/box-reports"
)

// Settings represents the process-wide configuration. It is read-only for the pipeline and is
// passed to the constructors of the components that need it.
type Settings struct {
	// AutoSave makes every bulk and listing run save its results to a report.
	AutoSave bool `mapstructure:"auto_save"`
	// ReportFormat is the default report file format.
	ReportFormat ReportFormat `mapstructure:"report_format" validate:"required,oneof=csv json"`
	// ReportsDir is the default report destination. Besides local directories, "s3://bucket/prefix"
	// and "es://index-prefix" destinations are supported by the output mux.
	ReportsDir string `mapstructure:"reports_dir" validate:"required"`
	// OutputJSON prints results to the console as JSON instead of text.
	OutputJSON bool `mapstructure:"output_json"`
	// PageSize is the number of entries fetched per page of a listing.
	PageSize int `mapstructure:"page_size" validate:"gt=0,lte=1000"`
	// NoColor disables console colors.
	NoColor bool `mapstructure:"no_color"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		ReportFormat: ReportFormatCSV,
		ReportsDir:   DefaultReportsDir,
		PageSize:     DefaultPageSize,
	}
}

// Validate validates the Settings fields.
func (s Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("settings validation error: %v", err)
	}
	return nil
}
