package boxbulk

import (
	"fmt"
	"strings"
	"time"

	"github.com/funktionslust/boxbulk/utils"
)

// Kind defines the entity kind of a record.
type Kind string

const (
	// KindFolder describes folders.
	KindFolder Kind = "folder"
	// KindFile describes files.
	KindFile Kind = "file"
	// KindUser describes enterprise users.
	KindUser Kind = "user"
	// KindGroup describes groups.
	KindGroup Kind = "group"
	// KindCollaboration describes collaborations on files and folders.
	KindCollaboration Kind = "collaboration"
	// KindMetadata describes metadata instances attached to files and folders.
	KindMetadata Kind = "metadata"
	// KindTask describes tasks on files.
	KindTask Kind = "task"
	// KindTaskAssignment describes task assignments.
	KindTaskAssignment Kind = "task_assignment"
)

// String converts a Kind to string.
func (k Kind) String() string {
	return string(k)
}

// Label returns the human readable kind name, e.g. "task assignment".
func (k Kind) Label() string {
	return strings.ReplaceAll(string(k), "_", " ")
}

// Record is a single entity travelling through a batch or a listing, either as an operation
// request or as an operation result. The set of implementations is closed: one struct per Kind.
type Record interface {
	// Kind returns the entity kind of the record.
	Kind() Kind
	// Identifier returns the remote identifier of the record, empty for records not created yet.
	Identifier() string
	// ToRow renders the reportable fields of the record in the kind column order.
	ToRow() *Row
	sealed()
}

// Mapper converts rows of a single kind to records and back. Column order and names are fixed
// per kind and don't depend on which optional fields are populated.
type Mapper interface {
	// Kind returns the kind the mapper is responsible for.
	Kind() Kind
	// Columns returns the reportable columns in order.
	Columns() []string
	// FromRow builds a record out of the row. Absent columns map to zero fields.
	FromRow(row *Row) (Record, error)
	// ToRow renders the record as a row. It fails with ErrKindMismatch for foreign records.
	ToRow(record Record) (*Row, error)
}

// MapperFor returns the mapper of the passed kind.
func MapperFor(kind Kind) (Mapper, error) {
	switch kind {
	case KindFolder:
		return FolderMapper, nil
	case KindFile:
		return FileMapper, nil
	case KindUser:
		return UserMapper, nil
	case KindGroup:
		return GroupMapper, nil
	case KindCollaboration:
		return CollaborationMapper, nil
	case KindMetadata:
		return MetadataMapper, nil
	case KindTask:
		return TaskMapper, nil
	case KindTaskAssignment:
		return TaskAssignmentMapper, nil
	}
	return nil, fmt.Errorf("unknown record kind %q", kind)
}

// RequestSchema describes the rows an operation accepts: the mapper of the records and the
// columns whose values the operation can't do without.
type RequestSchema struct {
	Mapper   Mapper
	Required []string
}

// CheckHeader returns a *SchemaMismatchError if any of the required columns is absent from
// the header.
func (s RequestSchema) CheckHeader(header []string) error {
	present := make(map[string]struct{}, len(header))
	for _, column := range header {
		present[column] = struct{}{}
	}
	var missing []string
	for _, column := range s.Required {
		if _, ok := present[column]; !ok {
			missing = append(missing, column)
		}
	}
	if len(missing) != 0 {
		return &SchemaMismatchError{Kind: s.Mapper.Kind(), Missing: missing}
	}
	return nil
}

// MissingValues returns the required columns that are empty or absent in the row.
func (s RequestSchema) MissingValues(row *Row) []string {
	var missing []string
	for _, column := range s.Required {
		if v, ok := row.Get(column); !ok || v == "" {
			missing = append(missing, column)
		}
	}
	return missing
}

// mapper is the Mapper implementation shared by all kinds.
type mapper struct {
	kind    Kind
	columns []string
	decode  func(r *rowReader) Record
}

func (m *mapper) Kind() Kind {
	return m.kind
}

func (m *mapper) Columns() []string {
	return m.columns
}

func (m *mapper) FromRow(row *Row) (Record, error) {
	r := &rowReader{row: row}
	record := m.decode(r)
	if r.err != nil {
		return nil, r.err
	}
	return record, nil
}

func (m *mapper) ToRow(record Record) (*Row, error) {
	if record.Kind() != m.kind {
		return nil, fmt.Errorf("%w: %s mapper got a %s record", ErrKindMismatch, m.kind, record.Kind())
	}
	return record.ToRow(), nil
}

// rowReader reads typed values out of a row and keeps the first conversion error.
type rowReader struct {
	row *Row
	err error
}

func (r *rowReader) str(column string) string {
	return r.row.Value(column)
}

func (r *rowReader) boolean(column string) bool {
	b, err := utils.ParseBool(r.row.Value(column))
	r.fail(column, err)
	return b
}

func (r *rowReader) integer(column string) int64 {
	i, err := utils.ParseInt(r.row.Value(column))
	r.fail(column, err)
	return i
}

func (r *rowReader) date(column string) time.Time {
	t, err := utils.ParseDate(r.row.Value(column))
	r.fail(column, err)
	return t
}

func (r *rowReader) keyValues(column string) map[string]interface{} {
	m, err := utils.ParseKeyValues(r.row.Value(column))
	r.fail(column, err)
	return m
}

func (r *rowReader) fail(column string, err error) {
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("column %s: %v", column, err)
	}
}

// rowWriter fills a row in the kind column order.
type rowWriter struct {
	row *Row
}

func newRowWriter() *rowWriter {
	return &rowWriter{row: NewRow()}
}

func (w *rowWriter) str(column, value string) *rowWriter {
	w.row.Set(column, value)
	return w
}

func (w *rowWriter) boolean(column string, value bool) *rowWriter {
	w.row.Set(column, utils.FormatScalar(value))
	return w
}

func (w *rowWriter) integer(column string, value int64) *rowWriter {
	w.row.Set(column, utils.FormatInt(value))
	return w
}

func (w *rowWriter) date(column string, value time.Time) *rowWriter {
	w.row.Set(column, utils.FormatDate(value))
	return w
}
