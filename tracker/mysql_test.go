//go:build integration
// +build integration

package tracker

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/funktionslust/boxbulk"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

func TestMySQLTracker_Runs(t *testing.T) {
	tracker, err := buildTracker("process-1", false)
	if err != nil {
		t.Fatalf("tracker build error: %v", err)
	}
	defer tracker.Shutdown()
	run := boxbulk.NewRun("folders", "create", "folders.csv")
	t.Run("StartRun", func(t *testing.T) {
		assert.Nilf(t, tracker.StartRun(run), "start run error")
		runs, err := tracker.LastRuns(10)
		assert.Nilf(t, err, "last runs error")
		if assert.Equalf(t, 1, len(runs), "runs count mismatch") {
			assert.Equal(t, run.ID, runs[0].ID)
			assert.Equal(t, boxbulk.RunStateRunning, runs[0].State)
		}
	})
	if t.Failed() {
		return
	}
	t.Run("TrackIssue", func(t *testing.T) {
		issue := boxbulk.NewIssue(errors.New("conflict"), "", boxbulk.IssueTypeRemote, boxbulk.StepExecutor)
		issue.Run = run
		issue.Line = 2
		issue.Kind = boxbulk.KindFolder
		assert.Nilf(t, tracker.TrackIssue(issue), "track issue error")
		issues, err := tracker.RunIssues(run.ID)
		assert.Nilf(t, err, "run issues error")
		if assert.Equalf(t, 1, len(issues), "issues count mismatch") {
			assert.Equal(t, 2, issues[0].Line)
			assert.Equal(t, boxbulk.IssueTypeRemote, issues[0].Type)
			assert.Equal(t, "conflict", issues[0].Message())
		}
	})
	t.Run("FinishRun", func(t *testing.T) {
		run.Finish(3, 2, 1, "/tmp/folders-create.csv", nil)
		assert.Nilf(t, tracker.FinishRun(run), "finish run error")
		runs, err := tracker.LastRuns(1)
		assert.Nilf(t, err, "last runs error")
		if assert.Equalf(t, 1, len(runs), "runs count mismatch") {
			assert.Equal(t, boxbulk.RunStateFinished, runs[0].State)
			assert.Equal(t, 2, runs[0].Succeeded)
			assert.Equal(t, "/tmp/folders-create.csv", runs[0].ReportPath)
		}
	})
	t.Run("FinishUntrackedRun", func(t *testing.T) {
		err := tracker.FinishRun(boxbulk.NewRun("users", "create", "users.csv"))
		if assert.NotNil(t, err) {
			assert.Contains(t, err.Error(), "is not tracked")
		}
	})
}

func TestMySQLTracker_CleanupOnStart(t *testing.T) {
	// ARRANGE
	first, err := buildTracker("process-1", false)
	if err != nil {
		t.Fatalf("tracker build error: %v", err)
	}
	interrupted := boxbulk.NewRun("users", "create", "users.csv")
	interrupted.Started = time.Now().Add(-2 * time.Hour)
	if err := first.StartRun(interrupted); err != nil {
		t.Fatalf("start run error: %v", err)
	}
	active := boxbulk.NewRun("folders", "create", "folders.csv")
	if err := first.StartRun(active); err != nil {
		t.Fatalf("start run error: %v", err)
	}
	first.Shutdown()

	// ACT
	second := NewMySQLTracker(mysqlConn(), GORMTrackerConfig{
		Logger:         logger.Default.LogMode(logger.Silent),
		CleanupOnStart: true,
		StaleAfter:     time.Hour,
	})
	err = boxbulk.InitStorage(context.Background(), second, "process-2", zap.NewNop())
	if err != nil {
		t.Fatalf("tracker init error: %v", err)
	}
	defer second.Shutdown()

	// ASSERT
	runs, err := second.LastRuns(10)
	assert.Nil(t, err)
	if !assert.Equal(t, 2, len(runs)) {
		return
	}
	states := map[string]*boxbulk.Run{}
	for _, r := range runs {
		states[r.ID] = r
	}
	if assert.Contains(t, states, interrupted.ID) {
		assert.Equal(t, boxbulk.RunStateFailed, states[interrupted.ID].State)
		assert.Equal(t, "interrupted", states[interrupted.ID].Error)
	}
	if assert.Contains(t, states, active.ID) {
		assert.Equalf(t, boxbulk.RunStateRunning, states[active.ID].State, "a recent run of a live process must stay running")
		assert.Empty(t, states[active.ID].Error)
	}
}

// buildTracker builds a tracker instance over clean tables.
func buildTracker(processID string, cleanup bool) (*MySQLTracker, error) {
	tracker := NewMySQLTracker(mysqlConn(), GORMTrackerConfig{Logger: logger.Default.LogMode(logger.Silent), CleanupOnStart: cleanup})
	if err := boxbulk.InitStorage(context.Background(), tracker, processID, zap.NewNop()); err != nil {
		return nil, err
	}
	if err := tracker.client.Migrator().DropTable(&run{}, &issue{}); err != nil {
		return nil, err
	}
	if err := tracker.client.AutoMigrate(&run{}, &issue{}); err != nil {
		return nil, err
	}
	return tracker, nil
}

func mysqlConn() MySQLTrackerConfig {
	return MySQLTrackerConfig{
		Host:     os.Getenv("MYSQL_TRACKER_HOST"),
		Database: os.Getenv("MYSQL_TRACKER_DATABASE"),
		User:     os.Getenv("MYSQL_TRACKER_USER"),
		Password: os.Getenv("MYSQL_TRACKER_PASSWORD"),
		Port:     os.Getenv("MYSQL_TRACKER_PORT"),
	}
}
