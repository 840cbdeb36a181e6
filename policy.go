package boxbulk

import (
	"github.com/divideandconquer/go-merge/merge"
)

// SaveOverride holds the per-invocation save flags of a command. Zero fields don't override
// anything.
type SaveOverride struct {
	// Save requests saving explicitly.
	Save bool
	// Path is the report destination directory. A non-empty path implies saving.
	Path string
	// Format is the report file format.
	Format ReportFormat
}

// SavePolicy is the resolved decision on whether and where results of a run get saved. When
// Enabled is false, Path and Format must not cause any side effect.
type SavePolicy struct {
	Enabled bool
	Path    string
	Format  ReportFormat
}

const (
	policyEnabledKey = "enabled"
	policyPathKey    = "path"
	policyFormatKey  = "format"
)

// ResolveSavePolicy layers the per-invocation override over the process-wide settings. Saving is
// enabled by an explicit save flag, by an override path or by the auto-save setting. The override
// path and format take precedence over the configured reports directory and report format.
func ResolveSavePolicy(override SaveOverride, settings Settings) SavePolicy {
	base := map[string]interface{}{
		policyEnabledKey: settings.AutoSave,
		policyPathKey:    settings.ReportsDir,
		policyFormatKey:  settings.ReportFormat.String(),
	}
	layer := make(map[string]interface{})
	if override.Save || override.Path != "" {
		layer[policyEnabledKey] = true
	}
	if override.Path != "" {
		layer[policyPathKey] = override.Path
	}
	if override.Format != "" {
		layer[policyFormatKey] = override.Format.String()
	}
	merged := merge.Merge(base, layer).(map[string]interface{})
	policy := SavePolicy{}
	policy.Enabled, _ = merged[policyEnabledKey].(bool)
	policy.Path, _ = merged[policyPathKey].(string)
	format, _ := merged[policyFormatKey].(string)
	policy.Format = ReportFormat(format)
	if policy.Format == "" {
		policy.Format = ReportFormatCSV
	}
	return policy
}
