// internal/domain/models/slugreservation.go
package models

import "time"

// Slug reservation types. Only member reservations exist in this service, but
// the slugs collection is shared infrastructure and carries a discriminator.
const SlugTypeMember = "member"

// SlugReservation claims a slug value for a single owning record.
//
// The document _id is the lower-cased slug, which makes the collection itself
// the uniqueness registry: two reservations for the same slug cannot both be
// inserted.
type SlugReservation struct {
	Slug        string    `bson:"_id" json:"slug"`
	Type        string    `bson:"type" json:"type"`
	ReferenceID string    `bson:"reference_id" json:"reference_id"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
