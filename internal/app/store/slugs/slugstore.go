// internal/app/store/slugs/slugstore.go
package slugstore

import (
	"context"
	"time"

	"github.com/dalemusser/memberhub/internal/app/system/normalize"
	"github.com/dalemusser/memberhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store is the slug registry. Reservation documents are keyed by the
// lower-cased slug value, so the collection's _id uniqueness is the
// registry's hard guarantee; IsTaken is only the fast advisory check.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("slugs")}
}

// Collection exposes the underlying collection so callers can enlist
// reservation writes in a multi-document transaction.
func (s *Store) Collection() *mongo.Collection {
	return s.c
}

// IsTaken reports whether a reservation exists for the slug. Comparison is
// case-insensitive.
func (s *Store) IsTaken(ctx context.Context, slug string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"_id": normalize.Slug(slug)}).Err()
	if err == nil {
		return true, nil
	}
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return false, err
}

// Get loads the reservation for a slug, or nil if none exists.
func (s *Store) Get(ctx context.Context, slug string) (*models.SlugReservation, error) {
	var r models.SlugReservation
	err := s.c.FindOne(ctx, bson.M{"_id": normalize.Slug(slug)}).Decode(&r)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Insert writes a reservation with create-only semantics: a duplicate slug
// fails with the driver's duplicate-key error. Pass a session context to make
// the write part of a transaction.
func (s *Store) Insert(ctx context.Context, r models.SlugReservation) error {
	_, err := s.c.InsertOne(ctx, r)
	return err
}

// MakeReservation builds a member slug reservation. The slug is canonicalized
// and createdAt is expected to be the owning member's creation timestamp.
func MakeReservation(slug, referenceID string, createdAt time.Time) models.SlugReservation {
	return models.SlugReservation{
		Slug:        normalize.Slug(slug),
		Type:        models.SlugTypeMember,
		ReferenceID: referenceID,
		CreatedAt:   createdAt,
	}
}
