package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/funktionslust/boxbulk"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := loadConfig(newViper("", t.TempDir()))
		if assert.Nil(t, err) {
			assert.Equal(t, boxbulk.DefaultSettings(), cfg.Settings)
			assert.Equal(t, defaultTimeout, cfg.API.Timeout)
			assert.Equal(t, "3306", cfg.Tracker.Port)
		}
	})
	t.Run("SettingsFileAndEnv", func(t *testing.T) {
		// ARRANGE
		home := t.TempDir()
		dir := filepath.Join(home, configDirName)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir error: %v", err)
		}
		content := "settings:\n  auto_save: true\n  report_format: json\n  reports_dir: /tmp/reports\n  page_size: 50\napi:\n  token: from-file\n  timeout: 5s\n"
		if err := os.WriteFile(filepath.Join(dir, configName+".yaml"), []byte(content), 0o600); err != nil {
			t.Fatalf("write settings error: %v", err)
		}
		t.Setenv("BOXBULK_API_TOKEN", "from-env")
		t.Setenv("BOXBULK_SETTINGS_NO_COLOR", "true")
		// ACT
		cfg, err := loadConfig(newViper("", home))
		// ASSERT
		if assert.Nil(t, err) {
			assert.Equal(t, boxbulk.Settings{
				AutoSave:     true,
				ReportFormat: boxbulk.ReportFormatJSON,
				ReportsDir:   "/tmp/reports",
				PageSize:     50,
				NoColor:      true,
			}, cfg.Settings)
			assert.Equalf(t, "from-env", cfg.API.Token, "env must override the settings file")
			assert.Equal(t, 5*time.Second, cfg.API.Timeout)
		}
	})
	t.Run("BrokenFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.yaml")
		_ = os.WriteFile(path, []byte("settings: [\n"), 0o600)
		_, err := loadConfig(newViper(path, ""))
		assert.NotNil(t, err)
	})
}

func TestSaveOverride(t *testing.T) {
	cmd := bulkCmd(&environment{}, "folders", boxbulk.OperationTypeCreate, boxbulk.FolderCreateSchema, "", nil)
	t.Run("Flags", func(t *testing.T) {
		_ = cmd.Flags().Set(flagSaveToPath, "/tmp/reports")
		_ = cmd.Flags().Set(flagFileFormat, "JSON")
		override, err := saveOverride(cmd.Flags())
		assert.Nil(t, err)
		assert.Equal(t, boxbulk.SaveOverride{Path: "/tmp/reports", Format: boxbulk.ReportFormatJSON}, override)
	})
	t.Run("InvalidFormat", func(t *testing.T) {
		_ = cmd.Flags().Set(flagFileFormat, "xml")
		_, err := saveOverride(cmd.Flags())
		assert.NotNil(t, err)
	})
}

func TestNewRootCmd(t *testing.T) {
	root := newRootCmd()
	for _, path := range [][]string{
		{"folders", "create"},
		{"folders", "update"},
		{"folders", "delete"},
		{"folders", "list-items"},
		{"files", "update"},
		{"users", "create"},
		{"groups", "list"},
		{"collaborations", "add"},
		{"metadata", "create"},
		{"tasks", "update"},
		{"task-assignments", "list"},
		{"runs", "issues"},
	} {
		cmd, _, err := root.Find(path)
		if assert.Nilf(t, err, "command %v", path) {
			assert.Equal(t, path[1], cmd.Name())
		}
	}
}

func TestFormatRun(t *testing.T) {
	run := &boxbulk.Run{
		ID:         "run-1",
		Command:    "folders",
		SubCommand: "create",
		State:      boxbulk.RunStateFinished,
		Started:    time.Date(2021, 4, 1, 10, 0, 0, 0, time.UTC),
		Total:      3,
		Succeeded:  2,
		Failed:     1,
		ReportPath: "/tmp/reports/folders-create-2021-04-01_10-00-00.csv",
	}

	line := formatRun(run)

	assert.Equal(t, "2021-04-01T10:00:00Z run-1 folders create finished: 3 records, 2 succeeded, 1 failed, report /tmp/reports/folders-create-2021-04-01_10-00-00.csv", line)
}
