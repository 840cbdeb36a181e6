package boxbulk

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestBulkReader_Read(t *testing.T) {
	reader := NewBulkReader(NewFileInput(), zap.NewNop(), NewEmptyMetricsTracker())
	t.Run("CSV", func(t *testing.T) {
		// ARRANGE
		path := writeSource(t, t.TempDir(), "folders.csv", "\ufeffname, parent_id\nContracts,0\n,0\nInvoices,0\n")
		// ACT
		requests, err := reader.Read(context.Background(), path, FolderCreateSchema)
		// ASSERT
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if assert.Equalf(t, 3, len(requests), "requests number mismatch") {
			for i, request := range requests {
				assert.Equalf(t, i+1, request.Line, "requests must keep the input order")
			}
			assert.Equal(t, &Folder{Name: "Contracts", ParentID: "0"}, requests[0].Record)
			assert.Nil(t, requests[0].Missing)
			assert.Equal(t, []string{"name"}, requests[1].Missing)
			assert.Equal(t, "Invoices", requests[2].Record.(*Folder).Name)
		}
	})
	t.Run("JSON", func(t *testing.T) {
		path := writeSource(t, t.TempDir(), "users.json", `[
			{"name": "Jane Doe", "login": "jane@example.com", "space_amount": 1024, "is_sync_enabled": true},
			{"name": "John Doe"}
		]`)

		requests, err := reader.Read(context.Background(), path, UserCreateSchema)

		if assert.Nil(t, err) && assert.Equal(t, 2, len(requests)) {
			assert.Equal(t, &User{Name: "Jane Doe", Login: "jane@example.com", SpaceAmount: 1024, IsSyncEnabled: true}, requests[0].Record)
			assert.Equalf(t, []string{"login"}, requests[1].Missing, "a missing JSON key is a record level failure")
		}
	})
	t.Run("Gzipped", func(t *testing.T) {
		buf := &bytes.Buffer{}
		zw := gzip.NewWriter(buf)
		_, _ = zw.Write([]byte("name,parent_id\nContracts,0\n"))
		_ = zw.Close()
		path := writeSource(t, t.TempDir(), "folders.csv.gz", buf.String())

		requests, err := reader.Read(context.Background(), path, FolderCreateSchema)

		if assert.Nil(t, err) && assert.Equal(t, 1, len(requests)) {
			assert.Equal(t, "Contracts", requests[0].Record.(*Folder).Name)
		}
	})
	t.Run("FileNotFound", func(t *testing.T) {
		_, err := reader.Read(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), FolderCreateSchema)
		assert.True(t, errors.Is(err, ErrFileNotFound))
	})
	t.Run("Directory", func(t *testing.T) {
		_, err := reader.Read(context.Background(), t.TempDir(), FolderCreateSchema)
		assert.True(t, errors.Is(err, ErrFileNotFound))
	})
	t.Run("WrongColumnCount", func(t *testing.T) {
		path := writeSource(t, t.TempDir(), "folders.csv", "name,parent_id\nContracts,0\nInvoices,0,extra\n")

		requests, err := reader.Read(context.Background(), path, FolderCreateSchema)

		assert.Nilf(t, requests, "no partial read expected")
		var perr *ParseError
		if assert.True(t, errors.As(err, &perr)) {
			assert.Equal(t, 2, perr.Line)
		}
		assert.True(t, errors.Is(err, ErrParse))
	})
	t.Run("InvalidTypedValue", func(t *testing.T) {
		path := writeSource(t, t.TempDir(), "folders.csv", "name,parent_id,size\nContracts,0,big\n")

		_, err := reader.Read(context.Background(), path, FolderCreateSchema)

		var perr *ParseError
		if assert.True(t, errors.As(err, &perr)) {
			assert.Equal(t, 1, perr.Line)
			assert.Contains(t, perr.Error(), "column size")
		}
	})
	t.Run("SchemaMismatch", func(t *testing.T) {
		path := writeSource(t, t.TempDir(), "folders.csv", "description\nSigned\n")

		_, err := reader.Read(context.Background(), path, FolderCreateSchema)

		assert.True(t, errors.Is(err, ErrSchemaMismatch))
	})
	t.Run("EmptySource", func(t *testing.T) {
		path := writeSource(t, t.TempDir(), "folders.csv", "")

		_, err := reader.Read(context.Background(), path, FolderCreateSchema)

		assert.True(t, errors.Is(err, ErrParse))
	})
	t.Run("NestedJSONValue", func(t *testing.T) {
		path := writeSource(t, t.TempDir(), "folders.json", `[{"name": "Contracts", "parent": {"id": "0"}}]`)

		_, err := reader.Read(context.Background(), path, FolderCreateSchema)

		var perr *ParseError
		if assert.True(t, errors.As(err, &perr)) {
			assert.Equal(t, 1, perr.Line)
		}
	})
}

func TestSourceFormatOf(t *testing.T) {
	assert.Equal(t, SourceFormatCSV, SourceFormatOf("/tmp/folders.csv"))
	assert.Equal(t, SourceFormatJSON, SourceFormatOf("/tmp/folders.JSON"))
	assert.Equal(t, SourceFormatJSON, SourceFormatOf("s3://bucket/folders.json.gz"))
	assert.Equal(t, SourceFormatCSV, SourceFormatOf("/tmp/folders"))
}
