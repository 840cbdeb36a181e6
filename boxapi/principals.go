package boxapi

import (
	"context"
	"net/http"
	"time"

	"github.com/funktionslust/boxbulk"
)

type user struct {
	ID                   string    `json:"id,omitempty"`
	Name                 string    `json:"name,omitempty"`
	Login                string    `json:"login,omitempty"`
	Role                 string    `json:"role,omitempty"`
	Language             string    `json:"language,omitempty"`
	JobTitle             string    `json:"job_title,omitempty"`
	Phone                string    `json:"phone,omitempty"`
	Address              string    `json:"address,omitempty"`
	SpaceAmount          int64     `json:"space_amount,omitempty"`
	SpaceUsed            int64     `json:"space_used,omitempty"`
	Status               string    `json:"status,omitempty"`
	IsPlatformAccessOnly bool      `json:"is_platform_access_only,omitempty"`
	IsSyncEnabled        bool      `json:"is_sync_enabled,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	ModifiedAt           time.Time `json:"modified_at"`
}

func (u *user) record() boxbulk.Record {
	return &boxbulk.User{
		ID:                   u.ID,
		Name:                 u.Name,
		Login:                u.Login,
		Role:                 u.Role,
		Language:             u.Language,
		JobTitle:             u.JobTitle,
		Phone:                u.Phone,
		Address:              u.Address,
		SpaceAmount:          u.SpaceAmount,
		SpaceUsed:            u.SpaceUsed,
		Status:               u.Status,
		IsPlatformAccessOnly: u.IsPlatformAccessOnly,
		IsSyncEnabled:        u.IsSyncEnabled,
		CreatedAt:            u.CreatedAt,
		ModifiedAt:           u.ModifiedAt,
	}
}

// userBody drops the read-only fields.
type userBody struct {
	Name                 string `json:"name,omitempty"`
	Login                string `json:"login,omitempty"`
	Role                 string `json:"role,omitempty"`
	Language             string `json:"language,omitempty"`
	JobTitle             string `json:"job_title,omitempty"`
	Phone                string `json:"phone,omitempty"`
	Address              string `json:"address,omitempty"`
	SpaceAmount          int64  `json:"space_amount,omitempty"`
	Status               string `json:"status,omitempty"`
	IsPlatformAccessOnly bool   `json:"is_platform_access_only,omitempty"`
	IsSyncEnabled        bool   `json:"is_sync_enabled,omitempty"`
}

func newUserBody(u *boxbulk.User) userBody {
	return userBody{
		Name:                 u.Name,
		Login:                u.Login,
		Role:                 u.Role,
		Language:             u.Language,
		JobTitle:             u.JobTitle,
		Phone:                u.Phone,
		Address:              u.Address,
		SpaceAmount:          u.SpaceAmount,
		Status:               u.Status,
		IsPlatformAccessOnly: u.IsPlatformAccessOnly,
		IsSyncEnabled:        u.IsSyncEnabled,
	}
}

// CreateUser creates a managed user.
func (c *Client) CreateUser(ctx context.Context, record boxbulk.Record) (boxbulk.Record, error) {
	u, ok := record.(*boxbulk.User)
	if !ok {
		return nil, kindMismatch(boxbulk.KindUser, record)
	}
	var created user
	if err := c.call(ctx, http.MethodPost, "/users", nil, newUserBody(u), &created); err != nil {
		return nil, err
	}
	return created.record(), nil
}

// UpdateUser updates the non-empty fields of the user.
func (c *Client) UpdateUser(ctx context.Context, record boxbulk.Record) (boxbulk.Record, error) {
	u, ok := record.(*boxbulk.User)
	if !ok {
		return nil, kindMismatch(boxbulk.KindUser, record)
	}
	var updated user
	if err := c.call(ctx, http.MethodPut, "/users/"+u.ID, nil, newUserBody(u), &updated); err != nil {
		return nil, err
	}
	return updated.record(), nil
}

// UsersFetcher returns the page fetcher of the enterprise users.
func (c *Client) UsersFetcher() boxbulk.PageFetcher {
	return func(ctx context.Context, cursor boxbulk.PageCursor) (*boxbulk.Page, error) {
		return fetchPage(ctx, c, "/users", cursor, (*user).record)
	}
}

type group struct {
	ID                     string    `json:"id,omitempty"`
	Name                   string    `json:"name,omitempty"`
	Description            string    `json:"description,omitempty"`
	Provenance             string    `json:"provenance,omitempty"`
	ExternalSyncIdentifier string    `json:"external_sync_identifier,omitempty"`
	InvitabilityLevel      string    `json:"invitability_level,omitempty"`
	MemberViewabilityLevel string    `json:"member_viewability_level,omitempty"`
	CreatedAt              time.Time `json:"created_at"`
	ModifiedAt             time.Time `json:"modified_at"`
}

func (g *group) record() boxbulk.Record {
	return &boxbulk.Group{
		ID:                     g.ID,
		Name:                   g.Name,
		Description:            g.Description,
		Provenance:             g.Provenance,
		ExternalSyncIdentifier: g.ExternalSyncIdentifier,
		InvitabilityLevel:      g.InvitabilityLevel,
		MemberViewabilityLevel: g.MemberViewabilityLevel,
		CreatedAt:              g.CreatedAt,
		ModifiedAt:             g.ModifiedAt,
	}
}

type groupBody struct {
	Name                   string `json:"name"`
	Description            string `json:"description,omitempty"`
	Provenance             string `json:"provenance,omitempty"`
	ExternalSyncIdentifier string `json:"external_sync_identifier,omitempty"`
	InvitabilityLevel      string `json:"invitability_level,omitempty"`
	MemberViewabilityLevel string `json:"member_viewability_level,omitempty"`
}

// CreateGroup creates a group.
func (c *Client) CreateGroup(ctx context.Context, record boxbulk.Record) (boxbulk.Record, error) {
	g, ok := record.(*boxbulk.Group)
	if !ok {
		return nil, kindMismatch(boxbulk.KindGroup, record)
	}
	body := groupBody{
		Name:                   g.Name,
		Description:            g.Description,
		Provenance:             g.Provenance,
		ExternalSyncIdentifier: g.ExternalSyncIdentifier,
		InvitabilityLevel:      g.InvitabilityLevel,
		MemberViewabilityLevel: g.MemberViewabilityLevel,
	}
	var created group
	if err := c.call(ctx, http.MethodPost, "/groups", nil, body, &created); err != nil {
		return nil, err
	}
	return created.record(), nil
}

// GroupsFetcher returns the page fetcher of the enterprise groups.
func (c *Client) GroupsFetcher() boxbulk.PageFetcher {
	return func(ctx context.Context, cursor boxbulk.PageCursor) (*boxbulk.Page, error) {
		return fetchPage(ctx, c, "/groups", cursor, (*group).record)
	}
}
