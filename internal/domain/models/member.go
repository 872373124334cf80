// internal/domain/models/member.go
package models

import "time"

// Member is a stored member profile.
//
// The document _id is the owning user's subject identifier (a string from the
// identity provider), assigned once at creation and never changed. Slug
// comparisons are case-insensitive; the canonical stored slug is whatever the
// member supplied at creation.
type Member struct {
	ID            string        `bson:"_id" json:"id"`
	ProfileSlug   string        `bson:"profile_slug" json:"profile_slug"`
	FirstName     string        `bson:"first_name" json:"first_name"`
	LastName      string        `bson:"last_name,omitempty" json:"last_name,omitempty"`
	Company       string        `bson:"company,omitempty" json:"company,omitempty"`
	JobTitle      string        `bson:"job_title,omitempty" json:"job_title,omitempty"`
	Bio           string        `bson:"bio,omitempty" json:"bio,omitempty"`
	Interests     []string      `bson:"interests" json:"interests"`
	CanFeature    bool          `bson:"can_feature" json:"can_feature"`
	IsDeactivated bool          `bson:"is_deactivated" json:"is_deactivated"`
	ProfileLinks  []ProfileLink `bson:"profile_links,omitempty" json:"profile_links,omitempty"`

	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	LastUpdatedAt time.Time `bson:"last_updated_at" json:"last_updated_at"`
}

// IsPubliclyVisible reports whether the member may appear on public surfaces
// (public lookups and listings).
func (m Member) IsPubliclyVisible() bool {
	return m.CanFeature && !m.IsDeactivated
}

// PublicProfileLinks returns only the links the member has marked public.
// Never returns nil.
func (m Member) PublicProfileLinks() []ProfileLink {
	out := []ProfileLink{}
	for _, pl := range m.ProfileLinks {
		if pl.IsPublic {
			out = append(out, pl)
		}
	}
	return out
}

// ProfileLink is an outbound link on a member profile. Only links with
// IsPublic set are shown on public surfaces.
type ProfileLink struct {
	LinkType string `bson:"link_type,omitempty" json:"link_type,omitempty"`
	URL      string `bson:"url" json:"url"`
	IsPublic bool   `bson:"is_public" json:"is_public"`
}

// SlugRef pairs a member id with its profile slug. Returned by the light
// slug lookups that don't need the full profile.
type SlugRef struct {
	ID          string `bson:"_id" json:"id"`
	ProfileSlug string `bson:"profile_slug" json:"profile_slug"`
}
