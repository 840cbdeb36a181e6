package boxapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/funktionslust/boxbulk"
)

// defaultAccessibleByType is used for collaborations that don't name the collaborator type.
const defaultAccessibleByType = "user"

type collaboration struct {
	ID           string    `json:"id"`
	Item         *ref      `json:"item"`
	AccessibleBy *ref      `json:"accessible_by"`
	Role         string    `json:"role"`
	CanViewPath  bool      `json:"can_view_path"`
	Status       string    `json:"status"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
	ModifiedAt   time.Time `json:"modified_at"`
}

func (c *collaboration) record() boxbulk.Record {
	return &boxbulk.Collaboration{
		ID:                c.ID,
		ItemID:            c.Item.id(),
		ItemType:          c.Item.kind(),
		Role:              c.Role,
		AccessibleByID:    c.AccessibleBy.id(),
		AccessibleByType:  c.AccessibleBy.kind(),
		AccessibleByLogin: c.AccessibleBy.login(),
		CanViewPath:       c.CanViewPath,
		Status:            c.Status,
		ExpiresAt:         c.ExpiresAt,
		CreatedAt:         c.CreatedAt,
		ModifiedAt:        c.ModifiedAt,
	}
}

type collaborationBody struct {
	Item         ref        `json:"item"`
	AccessibleBy ref        `json:"accessible_by"`
	Role         string     `json:"role"`
	CanViewPath  bool       `json:"can_view_path,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

// AddCollaboration grants the collaborator the role on the item. The collaborator is addressed
// by id or, for users not known yet, by login.
func (c *Client) AddCollaboration(ctx context.Context, record boxbulk.Record) (boxbulk.Record, error) {
	collab, ok := record.(*boxbulk.Collaboration)
	if !ok {
		return nil, kindMismatch(boxbulk.KindCollaboration, record)
	}
	accessibleByType := collab.AccessibleByType
	if accessibleByType == "" {
		accessibleByType = defaultAccessibleByType
	}
	body := collaborationBody{
		Item:         ref{Type: collab.ItemType, ID: collab.ItemID},
		AccessibleBy: ref{Type: accessibleByType, ID: collab.AccessibleByID, Login: collab.AccessibleByLogin},
		Role:         collab.Role,
		CanViewPath:  collab.CanViewPath,
		ExpiresAt:    timestamp(collab.ExpiresAt),
	}
	var created collaboration
	if err := c.call(ctx, http.MethodPost, "/collaborations", nil, body, &created); err != nil {
		return nil, err
	}
	return created.record(), nil
}

// CollaborationsFetcher returns the page fetcher of the collaborations of a folder or a file.
func (c *Client) CollaborationsFetcher(itemType, itemID string) boxbulk.PageFetcher {
	return func(ctx context.Context, cursor boxbulk.PageCursor) (*boxbulk.Page, error) {
		return fetchPage(ctx, c, itemPath(itemType, itemID)+"/collaborations", cursor, (*collaboration).record)
	}
}

// CreateMetadata applies the metadata template instance with the record values to the item.
func (c *Client) CreateMetadata(ctx context.Context, record boxbulk.Record) (boxbulk.Record, error) {
	md, ok := record.(*boxbulk.Metadata)
	if !ok {
		return nil, kindMismatch(boxbulk.KindMetadata, record)
	}
	values := md.Values
	if values == nil {
		values = map[string]interface{}{}
	}
	path := fmt.Sprintf("%s/metadata/%s/%s", itemPath(md.ItemType, md.ItemID), md.Scope, md.TemplateKey)
	var instance map[string]interface{}
	if err := c.call(ctx, http.MethodPost, path, nil, values, &instance); err != nil {
		return nil, err
	}
	created := &boxbulk.Metadata{
		ItemID:      md.ItemID,
		ItemType:    md.ItemType,
		Scope:       md.Scope,
		TemplateKey: md.TemplateKey,
		Values:      map[string]interface{}{},
	}
	for k, v := range instance {
		// "$"-prefixed keys are instance properties, not template fields.
		if strings.HasPrefix(k, "$") {
			continue
		}
		created.Values[k] = v
	}
	return created, nil
}

// itemPath returns the API path of a folder or a file.
func itemPath(itemType, itemID string) string {
	if itemType == boxbulk.KindFolder.String() {
		return "/folders/" + itemID
	}
	return "/files/" + itemID
}
