package catalog

import (
	"github.com/shelterhq/refuge/data"
	"github.com/shelterhq/refuge/search"
)

// UserGroup is a back-office permission group.
type UserGroup string

const (
	GroupAdmin         UserGroup = "ADMIN"
	GroupAnimalManager UserGroup = "ANIMAL_MANAGER"
	GroupBlogger       UserGroup = "BLOGGER"
	GroupHeadOfPartner UserGroup = "HEAD_OF_PARTNERSHIPS"
	GroupVeterinarian  UserGroup = "VETERINARIAN"
)

// User is a back-office user record.
type User struct {
	ID          string      `bson:"_id" json:"id"`
	DisplayName string      `bson:"displayName" json:"displayName" binding:"required"`
	Email       string      `bson:"email" json:"email" binding:"required,email"`
	Groups      []UserGroup `bson:"groups,omitempty" json:"groups,omitempty"`
	IsDisabled  bool        `bson:"isDisabled" json:"isDisabled"`
}

func (u *User) ObjectID() string { return u.ID }

func (u *User) Fields() map[string]any {
	groups := make([]string, 0, len(u.Groups))
	for _, g := range u.Groups {
		groups = append(groups, string(g))
	}
	return map[string]any{
		"displayName": u.DisplayName,
		"email":       u.Email,
		"groups":      groups,
		"isDisabled":  u.IsDisabled,
	}
}

var Users = &Descriptor{
	Table:      "user",
	Index:      "users",
	Collection: "users",
	SortField:  "displayName",
	Fields: []FieldSpec{
		{Record: "displayName", Doc: "displayName"},
		{Record: "email", Doc: "email"},
		{Record: "groups", Doc: "groups"},
		{Record: "isDisabled", Doc: "isDisabled"},
	},
	Settings: search.IndexSettings{
		Searchable: []string{"displayName", "email"},
		Facets: []search.Facet{
			{Attribute: "groups"},
			{Attribute: "isDisabled", Mode: search.FacetFilterOnly},
		},
		PreTag:       PreTag,
		PostTag:      PostTag,
		MaxFacetHits: 20,
	},
	New: func() data.Record { return &User{} },
}
