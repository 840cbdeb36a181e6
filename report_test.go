package boxbulk

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestReport_Encode(t *testing.T) {
	report := &Report{
		Name:    "folders-list-items-2021-04-01_10-00-00",
		Columns: []string{"name", "id"},
		Rows: []*Row{
			RowFromValues([]string{"id", "name"}, []string{"11", "Contracts, signed"}),
			RowFromValues([]string{"name"}, []string{"Drafts"}),
		},
	}
	t.Run("CSV", func(t *testing.T) {
		report.Format = ReportFormatCSV
		data, err := report.Encode()
		assert.Nil(t, err)
		assert.Equal(t, "name,id\n\"Contracts, signed\",11\nDrafts,\n", string(data))
	})
	t.Run("JSON", func(t *testing.T) {
		report.Format = ReportFormatJSON
		data, err := report.Encode()
		assert.Nil(t, err)
		assert.Equalf(t, "[\n  {\n    \"name\": \"Contracts, signed\",\n    \"id\": \"11\"\n  },\n  {\n    \"name\": \"Drafts\",\n    \"id\": \"\"\n  }\n]\n",
			string(data), "keys must follow the column order")
		var decoded []map[string]string
		assert.Nil(t, json.Unmarshal(data, &decoded))
		if diff := deep.Equal(decoded, report.Documents()); diff != nil {
			t.Error(diff)
		}
	})
	t.Run("EmptyJSON", func(t *testing.T) {
		empty := &Report{Format: ReportFormatJSON, Columns: []string{"id"}}
		data, err := empty.Encode()
		assert.Nil(t, err)
		assert.Equal(t, "[]\n", string(data))
	})
	t.Run("InvalidFormat", func(t *testing.T) {
		_, err := (&Report{Format: "xml"}).Encode()
		assert.NotNil(t, err)
	})
}

func TestReportName(t *testing.T) {
	assert.Equal(t, "folders-create-2021-04-01_10-00-00", ReportName("folders", "create", testClock()))
	report := &Report{Name: "users-list-2021-04-01_10-00-00", Format: ReportFormatJSON}
	assert.Equal(t, "users-list-2021-04-01_10-00-00.json", report.FileName())
}

func TestReportWriter_Write(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		// ARRANGE
		output := &outputSpy{}
		writer := NewReportWriter(output, zap.NewNop(), NewEmptyMetricsTracker())
		// ACT
		location, err := writer.Write(context.Background(), []Record{&Folder{ID: "11"}}, FolderMapper, "r", SavePolicy{Path: "/nowhere", Format: ReportFormatCSV})
		// ASSERT
		assert.Nil(t, err)
		assert.Equal(t, "", location)
		assert.Equalf(t, 0, output.saved, "a disabled policy must not touch the output")
	})
	t.Run("File", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "reports")
		writer := NewReportWriter(NewFileOutput(), zap.NewNop(), NewEmptyMetricsTracker(), ReportWriterWithClock(testClock))
		name := writer.ReportName("folders", "create")
		location, err := writer.Write(context.Background(), []Record{&Folder{ID: "11", Name: "Contracts"}}, FolderMapper, name,
			SavePolicy{Enabled: true, Path: dir, Format: ReportFormatCSV})
		assert.Nil(t, err)
		assert.Equal(t, filepath.Join(dir, "folders-create-2021-04-01_10-00-00.csv"), location)
		records := readCSV(t, location)
		assert.Equal(t, FolderMapper.Columns(), records[0])
		assert.Equal(t, 2, len(records))
		leftovers, _ := filepath.Glob(filepath.Join(dir, ".*"))
		assert.Emptyf(t, leftovers, "temporary files must be renamed")
	})
	t.Run("NoRecords", func(t *testing.T) {
		dir := t.TempDir()
		writer := NewReportWriter(NewFileOutput(), zap.NewNop(), NewEmptyMetricsTracker())
		location, err := writer.Write(context.Background(), nil, UserMapper, "users-list", SavePolicy{Enabled: true, Path: dir, Format: ReportFormatCSV})
		assert.Nil(t, err)
		assert.Equalf(t, 1, len(readCSV(t, location)), "an empty report keeps its header")
	})
	t.Run("KindMismatch", func(t *testing.T) {
		output := &outputSpy{}
		writer := NewReportWriter(output, zap.NewNop(), NewEmptyMetricsTracker())
		_, err := writer.Write(context.Background(), []Record{&User{ID: "7"}}, FolderMapper, "r", SavePolicy{Enabled: true, Path: "/r", Format: ReportFormatCSV})
		assert.True(t, errors.Is(err, ErrKindMismatch))
		assert.Equal(t, 0, output.saved)
	})
	t.Run("InvalidFormat", func(t *testing.T) {
		writer := NewReportWriter(&outputSpy{}, zap.NewNop(), NewEmptyMetricsTracker())
		_, err := writer.Write(context.Background(), nil, FolderMapper, "r", SavePolicy{Enabled: true, Path: "/r", Format: "xml"})
		assert.NotNil(t, err)
	})
	t.Run("HomeDir", func(t *testing.T) {
		output := &outputSpy{}
		writer := NewReportWriter(output, zap.NewNop(), NewEmptyMetricsTracker())
		_, err := writer.Write(context.Background(), nil, FolderMapper, "r", SavePolicy{Enabled: true, Path: "~/box-reports", Format: ReportFormatCSV})
		assert.Nil(t, err)
		home, _ := os.UserHomeDir()
		assert.Equal(t, filepath.Join(home, "box-reports"), output.last.Dir)
	})
}

func TestFileOutput_Save_Unwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker failed: %v", err)
	}

	_, err := NewFileOutput().Save(context.Background(), &Report{Name: "r", Format: ReportFormatCSV, Dir: filepath.Join(blocker, "reports")})

	assert.True(t, errors.Is(err, ErrIO))
}

// ======= outputSpy =======

type outputSpy struct {
	BaseStorage
	saved int
	last  *Report
}

func (o *outputSpy) Save(ctx context.Context, report *Report) (string, error) {
	o.saved++
	o.last = report
	return filepath.Join(report.Dir, report.FileName()), nil
}
