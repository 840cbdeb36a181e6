package boxbulk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveSavePolicy(t *testing.T) {
	settings := DefaultSettings()
	autoSave := DefaultSettings()
	autoSave.AutoSave = true
	autoSave.ReportFormat = ReportFormatJSON
	tests := []struct {
		name     string
		override SaveOverride
		settings Settings
		expected SavePolicy
	}{
		{"NothingRequested", SaveOverride{}, settings, SavePolicy{Enabled: false, Path: DefaultReportsDir, Format: ReportFormatCSV}},
		{"SaveFlag", SaveOverride{Save: true}, settings, SavePolicy{Enabled: true, Path: DefaultReportsDir, Format: ReportFormatCSV}},
		{"PathImpliesSave", SaveOverride{Path: "/tmp/out"}, settings, SavePolicy{Enabled: true, Path: "/tmp/out", Format: ReportFormatCSV}},
		{"FormatAlone", SaveOverride{Format: ReportFormatJSON}, settings, SavePolicy{Enabled: false, Path: DefaultReportsDir, Format: ReportFormatJSON}},
		{"AutoSave", SaveOverride{}, autoSave, SavePolicy{Enabled: true, Path: DefaultReportsDir, Format: ReportFormatJSON}},
		{"OverrideWins", SaveOverride{Path: "s3://bucket/reports", Format: ReportFormatCSV}, autoSave, SavePolicy{Enabled: true, Path: "s3://bucket/reports", Format: ReportFormatCSV}},
		{"EmptyFormat", SaveOverride{Save: true}, Settings{ReportsDir: "/r"}, SavePolicy{Enabled: true, Path: "/r", Format: ReportFormatCSV}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveSavePolicy(tt.override, tt.settings))
		})
	}
}
