package boxapi

import (
	"context"
	"net/http"
	"time"

	"github.com/funktionslust/boxbulk"
)

type item struct {
	Type        string    `json:"type"`
	ID          string    `json:"id"`
	SequenceID  string    `json:"sequence_id"`
	ETag        string    `json:"etag"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Size        int64     `json:"size"`
	SHA1        string    `json:"sha1"`
	ItemStatus  string    `json:"item_status"`
	CreatedAt   time.Time `json:"created_at"`
	ModifiedAt  time.Time `json:"modified_at"`
	Parent      *ref      `json:"parent"`
	OwnedBy     *ref      `json:"owned_by"`
	SharedLink  *struct {
		URL string `json:"url"`
	} `json:"shared_link"`
}

func (i *item) sharedLinkURL() string {
	if i.SharedLink == nil {
		return ""
	}
	return i.SharedLink.URL
}

func (i *item) folder() *boxbulk.Folder {
	return &boxbulk.Folder{
		ID:            i.ID,
		SequenceID:    i.SequenceID,
		ETag:          i.ETag,
		Name:          i.Name,
		Description:   i.Description,
		Size:          i.Size,
		ParentID:      i.Parent.id(),
		ItemStatus:    i.ItemStatus,
		CreatedAt:     i.CreatedAt,
		ModifiedAt:    i.ModifiedAt,
		OwnedByLogin:  i.OwnedBy.login(),
		SharedLinkURL: i.sharedLinkURL(),
	}
}

func (i *item) file() *boxbulk.File {
	return &boxbulk.File{
		ID:            i.ID,
		SequenceID:    i.SequenceID,
		ETag:          i.ETag,
		Name:          i.Name,
		Description:   i.Description,
		Size:          i.Size,
		ParentID:      i.Parent.id(),
		SHA1:          i.SHA1,
		ItemStatus:    i.ItemStatus,
		CreatedAt:     i.CreatedAt,
		ModifiedAt:    i.ModifiedAt,
		OwnedByLogin:  i.OwnedBy.login(),
		SharedLinkURL: i.sharedLinkURL(),
	}
}

// record converts a folder entry into a Folder and anything else, web links included, into a File.
func (i *item) record() boxbulk.Record {
	if i.Type == boxbulk.KindFolder.String() {
		return i.folder()
	}
	return i.file()
}

type itemBody struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Parent      *ref   `json:"parent,omitempty"`
}

// CreateFolder creates the folder in its parent. The description can't be passed on creation,
// so it is set by a follow-up update.
func (c *Client) CreateFolder(ctx context.Context, record boxbulk.Record) (boxbulk.Record, error) {
	folder, ok := record.(*boxbulk.Folder)
	if !ok {
		return nil, kindMismatch(boxbulk.KindFolder, record)
	}
	var created item
	body := itemBody{Name: folder.Name, Parent: parentRef(folder.ParentID)}
	if err := c.call(ctx, http.MethodPost, "/folders", nil, body, &created); err != nil {
		return nil, err
	}
	if folder.Description == "" {
		return created.folder(), nil
	}
	return c.UpdateFolder(ctx, &boxbulk.Folder{ID: created.ID, Description: folder.Description})
}

// UpdateFolder updates the non-empty name, description and parent of the folder.
func (c *Client) UpdateFolder(ctx context.Context, record boxbulk.Record) (boxbulk.Record, error) {
	folder, ok := record.(*boxbulk.Folder)
	if !ok {
		return nil, kindMismatch(boxbulk.KindFolder, record)
	}
	var updated item
	body := itemBody{Name: folder.Name, Description: folder.Description, Parent: parentRef(folder.ParentID)}
	if err := c.call(ctx, http.MethodPut, "/folders/"+folder.ID, nil, body, &updated); err != nil {
		return nil, err
	}
	return updated.folder(), nil
}

// DeleteFolder deletes the folder together with its content.
func (c *Client) DeleteFolder(ctx context.Context, record boxbulk.Record) (boxbulk.Record, error) {
	folder, ok := record.(*boxbulk.Folder)
	if !ok {
		return nil, kindMismatch(boxbulk.KindFolder, record)
	}
	query := map[string]string{"recursive": "true"}
	if err := c.call(ctx, http.MethodDelete, "/folders/"+folder.ID, query, nil, nil); err != nil {
		return nil, err
	}
	return folder, nil
}

// FolderItemsFetcher returns the page fetcher of the folder content.
func (c *Client) FolderItemsFetcher(folderID string) boxbulk.PageFetcher {
	return func(ctx context.Context, cursor boxbulk.PageCursor) (*boxbulk.Page, error) {
		return fetchPage(ctx, c, "/folders/"+folderID+"/items", cursor, (*item).record)
	}
}

// UpdateFile renames the file and updates its non-empty description and parent.
func (c *Client) UpdateFile(ctx context.Context, record boxbulk.Record) (boxbulk.Record, error) {
	file, ok := record.(*boxbulk.File)
	if !ok {
		return nil, kindMismatch(boxbulk.KindFile, record)
	}
	var updated item
	body := itemBody{Name: file.Name, Description: file.Description, Parent: parentRef(file.ParentID)}
	if err := c.call(ctx, http.MethodPut, "/files/"+file.ID, nil, body, &updated); err != nil {
		return nil, err
	}
	return updated.file(), nil
}
