package tracker

import (
	"errors"
	"fmt"
	"time"

	"github.com/funktionslust/boxbulk"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultStaleAfter is the age a running run of another process must reach before the start
// cleanup takes it for interrupted.
const DefaultStaleAfter = 24 * time.Hour

// GORMTrackerConfig represents the GORMTracker config structure.
type GORMTrackerConfig struct {
	Logger logger.Interface `validate:"required"`
	// CleanupOnStart marks runs left in the running state by other processes as failed. The
	// tracker can't tell a crashed process from one that is still working, so only runs started
	// more than StaleAfter ago are touched.
	CleanupOnStart bool
	// StaleAfter defaults to DefaultStaleAfter.
	StaleAfter time.Duration
}

// NewGORMTracker returns a new instance of the GORMTracker working over the passed dialector.
func NewGORMTracker(dialector gorm.Dialector, cfg GORMTrackerConfig) *GORMTracker {
	return &GORMTracker{
		Cfg:       cfg,
		dialector: dialector,
	}
}

// GORMTracker represents a tracker that stores the history of runs and their issues inside a
// database supported by gorm like PostgresSQL, MySQL and others.
type GORMTracker struct {
	boxbulk.BaseStorage
	Cfg       GORMTrackerConfig
	dialector gorm.Dialector
	client    *gorm.DB
}

// Setup opens the database and migrates the tracker tables.
func (t *GORMTracker) Setup() error {
	if t.dialector == nil {
		return errors.New("gorm tracker has no dialector")
	}
	db, err := gorm.Open(t.dialector, &gorm.Config{DisableForeignKeyConstraintWhenMigrating: true})
	if err != nil {
		return err
	}
	return t.init(db)
}

// init migrates the tables and performs the start cleanup if configured.
func (t *GORMTracker) init(db *gorm.DB) error {
	t.client = db.Session(&gorm.Session{Logger: t.Cfg.Logger})
	if err := t.client.AutoMigrate(&run{}, &issue{}); err != nil {
		return err
	}
	if t.Cfg.CleanupOnStart {
		return t.cleanup()
	}
	return nil
}

// Shutdown is called only once at the very end of the work with the storage. As for the GORMTracker,
// it closes the initially opened db connection.
func (t *GORMTracker) Shutdown() {
	if t.client == nil {
		return
	}
	db, _ := t.client.DB()
	if db != nil {
		db.Close()
	}
}

// StartRun persists the freshly started run.
func (t *GORMTracker) StartRun(r *boxbulk.Run) error {
	dbrun := convertDBRun(r, t.RunID)
	if err := t.client.Create(&dbrun).Error; err != nil {
		return fmt.Errorf("create run error: %v", err)
	}
	return nil
}

// TrackIssue persists the issue of a run.
func (t *GORMTracker) TrackIssue(i *boxbulk.Issue) error {
	dbissue := convertDBIssue(i)
	if err := t.client.Create(&dbissue).Error; err != nil {
		return fmt.Errorf("create issue error: %v", err)
	}
	return nil
}

// FinishRun persists the final counters and state of the run.
func (t *GORMTracker) FinishRun(r *boxbulk.Run) error {
	dbrun := convertDBRun(r, t.RunID)
	tx := t.client.Model(&run{}).Where("uuid = ?", r.ID).Select(
		"state", "finished", "total", "succeeded", "failed", "report_path", "error",
	).Updates(&dbrun)
	if tx.Error != nil {
		return fmt.Errorf("finish run error: %v", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("run %s is not tracked", r.ID)
	}
	return nil
}

// LastRuns returns up to limit most recently started runs, newest first.
func (t *GORMTracker) LastRuns(limit int) ([]*boxbulk.Run, error) {
	var runs []run
	if err := t.client.Order("started desc, id desc").Limit(limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	result := make([]*boxbulk.Run, 0, len(runs))
	for i := range runs {
		result = append(result, runs[i].Convert())
	}
	return result, nil
}

// RunIssues returns the issues of the run in the order they occurred.
func (t *GORMTracker) RunIssues(runID string) ([]*boxbulk.Issue, error) {
	var issues []issue
	if err := t.client.Order("id").Find(&issues, "run_uuid = ?", runID).Error; err != nil {
		return nil, err
	}
	result := make([]*boxbulk.Issue, 0, len(issues))
	for i := range issues {
		result = append(result, issues[i].Convert())
	}
	return result, nil
}

// cleanup marks runs of other processes that have been running for longer than StaleAfter as
// failed.
func (t *GORMTracker) cleanup() error {
	staleAfter := t.Cfg.StaleAfter
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	tx := t.client.Model(&run{}).
		Where("state = ? AND process_id <> ? AND started < ?", boxbulk.RunStateRunning.String(), t.RunID, time.Now().Add(-staleAfter)).
		Updates(map[string]interface{}{"state": boxbulk.RunStateFailed.String(), "error": "interrupted"})
	if tx.Error != nil {
		return fmt.Errorf("cleanup runs error: %v", tx.Error)
	}
	if t.Logger != nil && tx.RowsAffected > 0 {
		t.Logger.Info("interrupted runs marked as failed", zap.Int64("runs", tx.RowsAffected))
	}
	return nil
}

type run struct {
	gorm.Model
	UUID       string     `gorm:"uniqueIndex;not null;size:36"`
	ProcessID  string     `gorm:"index;not null;size:36"`
	Command    string     `gorm:"index;not null" sql:"type:VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci"`
	SubCommand string     `gorm:"index;not null" sql:"type:VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci"`
	Source     string     `sql:"type:TEXT CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci"`
	State      string     `gorm:"index;not null" sql:"type:VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci"`
	Started    time.Time  `gorm:"index"`
	Finished   *time.Time `gorm:"index"`
	Total      int
	Succeeded  int
	Failed     int
	ReportPath string `sql:"type:TEXT CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci"`
	Error      string `sql:"type:LONGTEXT CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci"`
}

func (r *run) Convert() *boxbulk.Run {
	return &boxbulk.Run{
		ID:         r.UUID,
		Command:    r.Command,
		SubCommand: r.SubCommand,
		Source:     r.Source,
		State:      boxbulk.RunState(r.State),
		Started:    r.Started,
		Finished:   r.Finished,
		Total:      r.Total,
		Succeeded:  r.Succeeded,
		Failed:     r.Failed,
		ReportPath: r.ReportPath,
		Error:      r.Error,
	}
}

func convertDBRun(r *boxbulk.Run, processID string) run {
	return run{
		UUID:       r.ID,
		ProcessID:  processID,
		Command:    r.Command,
		SubCommand: r.SubCommand,
		Source:     r.Source,
		State:      r.State.String(),
		Started:    r.Started,
		Finished:   r.Finished,
		Total:      r.Total,
		Succeeded:  r.Succeeded,
		Failed:     r.Failed,
		ReportPath: r.ReportPath,
		Error:      r.Error,
	}
}

type issue struct {
	gorm.Model
	RunUUID  *string `gorm:"index;size:36"`
	Step     string  `gorm:"index;not null" sql:"type:VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci"`
	Type     string  `gorm:"index;not null" sql:"type:VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci"`
	Kind     string  `gorm:"index" sql:"type:VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci"`
	Line     int
	RecordID string `sql:"type:VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci"`
	Note     string `sql:"type:LONGTEXT CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci"`
	Error    string `sql:"type:LONGTEXT CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci"`
}

func (i *issue) Convert() *boxbulk.Issue {
	result := &boxbulk.Issue{
		ID:       uint64(i.ID),
		Step:     boxbulk.Step(i.Step),
		Type:     boxbulk.IssueType(i.Type),
		Kind:     boxbulk.Kind(i.Kind),
		Line:     i.Line,
		RecordID: i.RecordID,
		Note:     i.Note,
		Created:  i.CreatedAt,
	}
	if i.Error != "" {
		result.Err = errors.New(i.Error)
	}
	if i.RunUUID != nil {
		result.Run = &boxbulk.Run{ID: *i.RunUUID}
	}
	return result
}

func convertDBIssue(i *boxbulk.Issue) issue {
	dbissue := issue{
		Step:     i.Step.String(),
		Type:     i.Type.String(),
		Kind:     i.Kind.String(),
		Line:     i.Line,
		RecordID: i.RecordID,
		Note:     i.Note,
	}
	if i.Run != nil {
		dbissue.RunUUID = &i.Run.ID
	}
	if i.Err != nil {
		dbissue.Error = i.Err.Error()
	}
	return dbissue
}
