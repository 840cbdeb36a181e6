package boxbulk

import "time"

// User is an enterprise user.
type User struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Login                string    `json:"login"`
	Role                 string    `json:"role,omitempty"`
	Language             string    `json:"language,omitempty"`
	JobTitle             string    `json:"job_title,omitempty"`
	Phone                string    `json:"phone,omitempty"`
	Address              string    `json:"address,omitempty"`
	SpaceAmount          int64     `json:"space_amount"`
	SpaceUsed            int64     `json:"space_used"`
	Status               string    `json:"status,omitempty"`
	IsPlatformAccessOnly bool      `json:"is_platform_access_only"`
	IsSyncEnabled        bool      `json:"is_sync_enabled"`
	CreatedAt            time.Time `json:"created_at"`
	ModifiedAt           time.Time `json:"modified_at"`
}

// Kind returns KindUser.
func (u *User) Kind() Kind { return KindUser }

// Identifier returns the user ID.
func (u *User) Identifier() string { return u.ID }

// ToRow renders the user in UserMapper column order.
func (u *User) ToRow() *Row {
	return newRowWriter().
		str("type", KindUser.String()).
		str("id", u.ID).
		str("name", u.Name).
		str("login", u.Login).
		str("role", u.Role).
		str("language", u.Language).
		str("job_title", u.JobTitle).
		str("phone", u.Phone).
		str("address", u.Address).
		integer("space_amount", u.SpaceAmount).
		integer("space_used", u.SpaceUsed).
		str("status", u.Status).
		boolean("is_platform_access_only", u.IsPlatformAccessOnly).
		boolean("is_sync_enabled", u.IsSyncEnabled).
		date("created_at", u.CreatedAt).
		date("modified_at", u.ModifiedAt).
		row
}

func (u *User) sealed() {}

// UserMapper maps user rows.
var UserMapper Mapper = &mapper{
	kind: KindUser,
	columns: []string{
		"type", "id", "name", "login", "role", "language", "job_title", "phone", "address",
		"space_amount", "space_used", "status", "is_platform_access_only", "is_sync_enabled",
		"created_at", "modified_at",
	},
	decode: func(r *rowReader) Record {
		return &User{
			ID:                   r.str("id"),
			Name:                 r.str("name"),
			Login:                r.str("login"),
			Role:                 r.str("role"),
			Language:             r.str("language"),
			JobTitle:             r.str("job_title"),
			Phone:                r.str("phone"),
			Address:              r.str("address"),
			SpaceAmount:          r.integer("space_amount"),
			SpaceUsed:            r.integer("space_used"),
			Status:               r.str("status"),
			IsPlatformAccessOnly: r.boolean("is_platform_access_only"),
			IsSyncEnabled:        r.boolean("is_sync_enabled"),
			CreatedAt:            r.date("created_at"),
			ModifiedAt:           r.date("modified_at"),
		}
	},
}

// Group is a group of users.
type Group struct {
	ID                     string    `json:"id"`
	Name                   string    `json:"name"`
	Description            string    `json:"description,omitempty"`
	Provenance             string    `json:"provenance,omitempty"`
	ExternalSyncIdentifier string    `json:"external_sync_identifier,omitempty"`
	InvitabilityLevel      string    `json:"invitability_level,omitempty"`
	MemberViewabilityLevel string    `json:"member_viewability_level,omitempty"`
	CreatedAt              time.Time `json:"created_at"`
	ModifiedAt             time.Time `json:"modified_at"`
}

// Kind returns KindGroup.
func (g *Group) Kind() Kind { return KindGroup }

// Identifier returns the group ID.
func (g *Group) Identifier() string { return g.ID }

// ToRow renders the group in GroupMapper column order.
func (g *Group) ToRow() *Row {
	return newRowWriter().
		str("type", KindGroup.String()).
		str("id", g.ID).
		str("name", g.Name).
		str("description", g.Description).
		str("provenance", g.Provenance).
		str("external_sync_identifier", g.ExternalSyncIdentifier).
		str("invitability_level", g.InvitabilityLevel).
		str("member_viewability_level", g.MemberViewabilityLevel).
		date("created_at", g.CreatedAt).
		date("modified_at", g.ModifiedAt).
		row
}

func (g *Group) sealed() {}

// GroupMapper maps group rows.
var GroupMapper Mapper = &mapper{
	kind: KindGroup,
	columns: []string{
		"type", "id", "name", "description", "provenance", "external_sync_identifier",
		"invitability_level", "member_viewability_level", "created_at", "modified_at",
	},
	decode: func(r *rowReader) Record {
		return &Group{
			ID:                     r.str("id"),
			Name:                   r.str("name"),
			Description:            r.str("description"),
			Provenance:             r.str("provenance"),
			ExternalSyncIdentifier: r.str("external_sync_identifier"),
			InvitabilityLevel:      r.str("invitability_level"),
			MemberViewabilityLevel: r.str("member_viewability_level"),
			CreatedAt:              r.date("created_at"),
			ModifiedAt:             r.date("modified_at"),
		}
	},
}
