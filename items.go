package boxbulk

import (
	"fmt"
	"time"
)

// Folder is a folder of the content tree.
type Folder struct {
	ID            string    `json:"id"`
	SequenceID    string    `json:"sequence_id,omitempty"`
	ETag          string    `json:"etag,omitempty"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Size          int64     `json:"size"`
	ParentID      string    `json:"parent_id"`
	ItemStatus    string    `json:"item_status,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	ModifiedAt    time.Time `json:"modified_at"`
	OwnedByLogin  string    `json:"owned_by_login,omitempty"`
	SharedLinkURL string    `json:"shared_link_url,omitempty"`
}

// Kind returns KindFolder.
func (f *Folder) Kind() Kind { return KindFolder }

// Identifier returns the folder ID.
func (f *Folder) Identifier() string { return f.ID }

// ToRow renders the folder in FolderMapper column order.
func (f *Folder) ToRow() *Row {
	return newRowWriter().
		str("type", KindFolder.String()).
		str("id", f.ID).
		str("sequence_id", f.SequenceID).
		str("etag", f.ETag).
		str("name", f.Name).
		str("description", f.Description).
		integer("size", f.Size).
		str("parent_id", f.ParentID).
		str("item_status", f.ItemStatus).
		date("created_at", f.CreatedAt).
		date("modified_at", f.ModifiedAt).
		str("owned_by_login", f.OwnedByLogin).
		str("shared_link_url", f.SharedLinkURL).
		row
}

func (f *Folder) sealed() {}

// FolderMapper maps folder rows.
var FolderMapper Mapper = &mapper{
	kind: KindFolder,
	columns: []string{
		"type", "id", "sequence_id", "etag", "name", "description", "size", "parent_id",
		"item_status", "created_at", "modified_at", "owned_by_login", "shared_link_url",
	},
	decode: func(r *rowReader) Record {
		return &Folder{
			ID:            r.str("id"),
			SequenceID:    r.str("sequence_id"),
			ETag:          r.str("etag"),
			Name:          r.str("name"),
			Description:   r.str("description"),
			Size:          r.integer("size"),
			ParentID:      r.str("parent_id"),
			ItemStatus:    r.str("item_status"),
			CreatedAt:     r.date("created_at"),
			ModifiedAt:    r.date("modified_at"),
			OwnedByLogin:  r.str("owned_by_login"),
			SharedLinkURL: r.str("shared_link_url"),
		}
	},
}

// File is a file of the content tree.
type File struct {
	ID            string    `json:"id"`
	SequenceID    string    `json:"sequence_id,omitempty"`
	ETag          string    `json:"etag,omitempty"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Size          int64     `json:"size"`
	ParentID      string    `json:"parent_id"`
	SHA1          string    `json:"sha1,omitempty"`
	ItemStatus    string    `json:"item_status,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	ModifiedAt    time.Time `json:"modified_at"`
	OwnedByLogin  string    `json:"owned_by_login,omitempty"`
	SharedLinkURL string    `json:"shared_link_url,omitempty"`
}

// Kind returns KindFile.
func (f *File) Kind() Kind { return KindFile }

// Identifier returns the file ID.
func (f *File) Identifier() string { return f.ID }

// ToRow renders the file in FileMapper column order.
func (f *File) ToRow() *Row {
	return newRowWriter().
		str("type", KindFile.String()).
		str("id", f.ID).
		str("sequence_id", f.SequenceID).
		str("etag", f.ETag).
		str("name", f.Name).
		str("description", f.Description).
		integer("size", f.Size).
		str("parent_id", f.ParentID).
		str("sha1", f.SHA1).
		str("item_status", f.ItemStatus).
		date("created_at", f.CreatedAt).
		date("modified_at", f.ModifiedAt).
		str("owned_by_login", f.OwnedByLogin).
		str("shared_link_url", f.SharedLinkURL).
		row
}

func (f *File) sealed() {}

// FileMapper maps file rows.
var FileMapper Mapper = &mapper{
	kind: KindFile,
	columns: []string{
		"type", "id", "sequence_id", "etag", "name", "description", "size", "parent_id", "sha1",
		"item_status", "created_at", "modified_at", "owned_by_login", "shared_link_url",
	},
	decode: func(r *rowReader) Record {
		return &File{
			ID:            r.str("id"),
			SequenceID:    r.str("sequence_id"),
			ETag:          r.str("etag"),
			Name:          r.str("name"),
			Description:   r.str("description"),
			Size:          r.integer("size"),
			ParentID:      r.str("parent_id"),
			SHA1:          r.str("sha1"),
			ItemStatus:    r.str("item_status"),
			CreatedAt:     r.date("created_at"),
			ModifiedAt:    r.date("modified_at"),
			OwnedByLogin:  r.str("owned_by_login"),
			SharedLinkURL: r.str("shared_link_url"),
		}
	},
}

// ItemMapper maps rows of folder listings, which mix folders and files. Rows are decoded by
// their type column and the columns are the file ones, a superset of the folder columns.
var ItemMapper Mapper = itemMapper{}

type itemMapper struct{}

func (itemMapper) Kind() Kind {
	return KindFile
}

func (itemMapper) Columns() []string {
	return FileMapper.Columns()
}

func (itemMapper) FromRow(row *Row) (Record, error) {
	if row.Value("type") == KindFolder.String() {
		return FolderMapper.FromRow(row)
	}
	return FileMapper.FromRow(row)
}

func (itemMapper) ToRow(record Record) (*Row, error) {
	switch record.Kind() {
	case KindFolder:
		return FolderMapper.ToRow(record)
	case KindFile:
		return FileMapper.ToRow(record)
	}
	return nil, fmt.Errorf("%w: item mapper got a %s record", ErrKindMismatch, record.Kind())
}
