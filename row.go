package boxbulk

// Row is an ordered mapping of column names to stringified values.
type Row struct {
	columns []string
	values  map[string]string
}

// NewRow returns an empty row.
func NewRow() *Row {
	return &Row{values: make(map[string]string)}
}

// RowFromValues builds a row out of a header and the corresponding values. Extra values are
// dropped and missing ones are left absent.
func RowFromValues(header, values []string) *Row {
	r := NewRow()
	for i, column := range header {
		if i < len(values) {
			r.Set(column, values[i])
		}
	}
	return r
}

// Set sets the column value. New columns are appended to the column order.
func (r *Row) Set(column, value string) {
	if _, ex := r.values[column]; !ex {
		r.columns = append(r.columns, column)
	}
	r.values[column] = value
}

// Get returns the column value and whether the column is present in the row.
func (r *Row) Get(column string) (string, bool) {
	v, ok := r.values[column]
	return v, ok
}

// Value returns the column value or an empty string if the column is absent.
func (r *Row) Value(column string) string {
	return r.values[column]
}

// Columns returns the row columns in order.
func (r *Row) Columns() []string {
	return r.columns
}

// Values returns the values of the passed columns in the same order. Absent columns
// are rendered as empty values.
func (r *Row) Values(columns []string) []string {
	values := make([]string, len(columns))
	for i, column := range columns {
		values[i] = r.values[column]
	}
	return values
}

// Len returns the number of columns of the row.
func (r *Row) Len() int {
	return len(r.columns)
}
