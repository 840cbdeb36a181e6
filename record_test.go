package boxbulk

import (
	"errors"
	"testing"
	"time"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
)

func TestMapper_RoundTrip(t *testing.T) {
	created := time.Date(2021, 4, 1, 10, 0, 0, 123456789, time.UTC)
	modified := time.Date(2021, 4, 2, 11, 30, 0, 0, time.UTC)
	records := []Record{
		&Folder{
			ID: "11", SequenceID: "1", ETag: "2", Name: "Contracts", Description: "Signed, sealed",
			Size: 2048, ParentID: "0", ItemStatus: "active", CreatedAt: created, ModifiedAt: modified,
			OwnedByLogin: "admin@example.com", SharedLinkURL: "https://example.com/s/abc",
		},
		&File{
			ID: "21", Name: "contract.pdf", Size: 1024, ParentID: "11", SHA1: "85136c79cbf9fe36bb9d05d0639c70c265c18d37",
			CreatedAt: created,
		},
		&User{
			ID: "41", Name: "Jane Doe", Login: "jane@example.com", Role: "user", SpaceAmount: -1,
			IsSyncEnabled: true, CreatedAt: created,
		},
		&Group{ID: "51", Name: "Legal", Description: "Legal team", InvitabilityLevel: "admins_only"},
		&Collaboration{
			ID: "31", ItemID: "11", ItemType: "folder", Role: "editor", AccessibleByLogin: "jane@example.com",
			CanViewPath: true, ExpiresAt: modified,
		},
		&Metadata{
			ItemID: "21", ItemType: "file", Scope: "enterprise", TemplateKey: "contract",
			Values: map[string]interface{}{
				"customer": "Smith & Sons", "formula": "a=b", "code": "12f", "discount": "50%",
				"r&d": "x", "amount": 1.5, "year": float64(2021), "marker": "f",
			},
		},
		&Task{ID: "61", ItemID: "21", ItemType: "file", Action: "review", Message: "Please review", DueAt: modified},
		&TaskAssignment{ID: "71", TaskID: "61", ItemID: "21", ItemType: "file", AssignedToLogin: "jane@example.com", AssignedAt: created},
	}
	for _, record := range records {
		t.Run(record.Kind().String(), func(t *testing.T) {
			mapper, err := MapperFor(record.Kind())
			if err != nil {
				t.Fatalf("mapper error: %v", err)
			}
			row, err := mapper.ToRow(record)
			if err != nil {
				t.Fatalf("to row error: %v", err)
			}
			assert.Equalf(t, mapper.Columns(), row.Columns(), "row columns must follow the mapper columns")

			decoded, err := mapper.FromRow(row)

			assert.Nil(t, err)
			if diff := deep.Equal(record, decoded); diff != nil {
				t.Error(diff)
			}
		})
	}
}

func TestMetadata_ToRow_Escaping(t *testing.T) {
	metadata := &Metadata{Values: map[string]interface{}{"customer": "Smith & Sons", "code": "12f", "amount": 1.5}}

	row := metadata.ToRow()

	assert.Equal(t, "amount=1.5f&code=12%66&customer=Smith %26 Sons", row.Value("metadata"))
}

func TestMapper_FromRow(t *testing.T) {
	t.Run("MissingOptionalColumns", func(t *testing.T) {
		record, err := FolderMapper.FromRow(RowFromValues([]string{"name", "parent_id"}, []string{"Contracts", "0"}))
		assert.Nil(t, err)
		assert.Equal(t, &Folder{Name: "Contracts", ParentID: "0"}, record)
	})
	t.Run("InvalidBool", func(t *testing.T) {
		_, err := UserMapper.FromRow(RowFromValues([]string{"name", "is_sync_enabled"}, []string{"Jane", "maybe"}))
		if assert.NotNil(t, err) {
			assert.Contains(t, err.Error(), "column is_sync_enabled")
		}
	})
	t.Run("InvalidDate", func(t *testing.T) {
		_, err := TaskMapper.FromRow(RowFromValues([]string{"due_at"}, []string{"tomorrow"}))
		if assert.NotNil(t, err) {
			assert.Contains(t, err.Error(), "column due_at")
		}
	})
	t.Run("FloatMarker", func(t *testing.T) {
		record, err := MetadataMapper.FromRow(RowFromValues(
			[]string{"item_id", "metadata"},
			[]string{"21", "amount=12.5f&count=3f&code=12.5&note=f"},
		))
		if assert.Nil(t, err) {
			assert.Equal(t, map[string]interface{}{
				"amount": 12.5,
				"count":  float64(3),
				"code":   "12.5",
				"note":   "f",
			}, record.(*Metadata).Values)
		}
	})
}

func TestMapper_KindMismatch(t *testing.T) {
	_, err := FolderMapper.ToRow(&File{ID: "21"})
	assert.True(t, errors.Is(err, ErrKindMismatch))

	_, err = ItemMapper.ToRow(&User{ID: "41"})
	assert.True(t, errors.Is(err, ErrKindMismatch))
}

func TestItemMapper(t *testing.T) {
	row, err := ItemMapper.ToRow(&Folder{ID: "11", Name: "Contracts"})
	if err != nil {
		t.Fatalf("to row error: %v", err)
	}
	assert.Equal(t, "", row.Value("sha1"))

	record, err := ItemMapper.FromRow(row)

	assert.Nil(t, err)
	assert.Equal(t, KindFolder, record.Kind())
	record, _ = ItemMapper.FromRow(RowFromValues([]string{"type", "id"}, []string{"file", "21"}))
	assert.Equal(t, KindFile, record.Kind())
}

func TestRequestSchema(t *testing.T) {
	t.Run("CheckHeader", func(t *testing.T) {
		err := FolderCreateSchema.CheckHeader([]string{"description", "name"})
		var mismatch *SchemaMismatchError
		if assert.True(t, errors.As(err, &mismatch)) {
			assert.Equal(t, KindFolder, mismatch.Kind)
			assert.Equal(t, []string{"parent_id"}, mismatch.Missing)
		}
		assert.True(t, errors.Is(err, ErrSchemaMismatch))
		assert.Nil(t, FolderCreateSchema.CheckHeader([]string{"parent_id", "name"}))
	})
	t.Run("MissingValues", func(t *testing.T) {
		row := RowFromValues([]string{"name", "parent_id"}, []string{"", "0"})
		assert.Equal(t, []string{"name"}, FolderCreateSchema.MissingValues(row))
		assert.Equal(t, []string{"name", "login"}, UserCreateSchema.MissingValues(NewRow()))
	})
}

func TestKind_Label(t *testing.T) {
	assert.Equal(t, "task assignment", KindTaskAssignment.Label())
	assert.Equal(t, "folder", KindFolder.Label())
}
