package boxbulk

import (
	"sort"
	"time"

	"github.com/funktionslust/boxbulk/utils"
)

// Collaboration grants a user or a group a role on a file or a folder.
type Collaboration struct {
	ID                string    `json:"id"`
	ItemID            string    `json:"item_id"`
	ItemType          string    `json:"item_type"`
	Role              string    `json:"role"`
	AccessibleByID    string    `json:"accessible_by_id,omitempty"`
	AccessibleByType  string    `json:"accessible_by_type,omitempty"`
	AccessibleByLogin string    `json:"accessible_by_login,omitempty"`
	CanViewPath       bool      `json:"can_view_path"`
	Status            string    `json:"status,omitempty"`
	ExpiresAt         time.Time `json:"expires_at"`
	CreatedAt         time.Time `json:"created_at"`
	ModifiedAt        time.Time `json:"modified_at"`
}

// Kind returns KindCollaboration.
func (c *Collaboration) Kind() Kind { return KindCollaboration }

// Identifier returns the collaboration ID.
func (c *Collaboration) Identifier() string { return c.ID }

// ToRow renders the collaboration in CollaborationMapper column order.
func (c *Collaboration) ToRow() *Row {
	return newRowWriter().
		str("type", KindCollaboration.String()).
		str("id", c.ID).
		str("item_id", c.ItemID).
		str("item_type", c.ItemType).
		str("role", c.Role).
		str("accessible_by_id", c.AccessibleByID).
		str("accessible_by_type", c.AccessibleByType).
		str("accessible_by_login", c.AccessibleByLogin).
		boolean("can_view_path", c.CanViewPath).
		str("status", c.Status).
		date("expires_at", c.ExpiresAt).
		date("created_at", c.CreatedAt).
		date("modified_at", c.ModifiedAt).
		row
}

func (c *Collaboration) sealed() {}

// CollaborationMapper maps collaboration rows.
var CollaborationMapper Mapper = &mapper{
	kind: KindCollaboration,
	columns: []string{
		"type", "id", "item_id", "item_type", "role", "accessible_by_id", "accessible_by_type",
		"accessible_by_login", "can_view_path", "status", "expires_at", "created_at", "modified_at",
	},
	decode: func(r *rowReader) Record {
		return &Collaboration{
			ID:                r.str("id"),
			ItemID:            r.str("item_id"),
			ItemType:          r.str("item_type"),
			Role:              r.str("role"),
			AccessibleByID:    r.str("accessible_by_id"),
			AccessibleByType:  r.str("accessible_by_type"),
			AccessibleByLogin: r.str("accessible_by_login"),
			CanViewPath:       r.boolean("can_view_path"),
			Status:            r.str("status"),
			ExpiresAt:         r.date("expires_at"),
			CreatedAt:         r.date("created_at"),
			ModifiedAt:        r.date("modified_at"),
		}
	},
}

// Metadata is a metadata template instance attached to a file or a folder. Values holds the
// template fields: decimals as float64, everything else as string.
type Metadata struct {
	ItemID      string                 `json:"item_id"`
	ItemType    string                 `json:"item_type"`
	Scope       string                 `json:"scope"`
	TemplateKey string                 `json:"template_key"`
	Values      map[string]interface{} `json:"metadata"`
}

// Kind returns KindMetadata.
func (m *Metadata) Kind() Kind { return KindMetadata }

// Identifier returns the ID of the item the metadata is attached to.
func (m *Metadata) Identifier() string { return m.ItemID }

// Keys returns the metadata keys in a stable order.
func (m *Metadata) Keys() []string {
	keys := make([]string, 0, len(m.Values))
	for k := range m.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ToRow renders the metadata in MetadataMapper column order. The values are encoded as
// "key=value&key2=value2" with the float marker appended to decimals.
func (m *Metadata) ToRow() *Row {
	w := newRowWriter().
		str("item_id", m.ItemID).
		str("item_type", m.ItemType).
		str("scope", m.Scope).
		str("template_key", m.TemplateKey)
	w.row.Set("metadata", utils.FormatKeyValues(m.Values, m.Keys()))
	return w.row
}

func (m *Metadata) sealed() {}

// MetadataMapper maps metadata rows.
var MetadataMapper Mapper = &mapper{
	kind:    KindMetadata,
	columns: []string{"item_id", "item_type", "scope", "template_key", "metadata"},
	decode: func(r *rowReader) Record {
		return &Metadata{
			ItemID:      r.str("item_id"),
			ItemType:    r.str("item_type"),
			Scope:       r.str("scope"),
			TemplateKey: r.str("template_key"),
			Values:      r.keyValues("metadata"),
		}
	},
}
