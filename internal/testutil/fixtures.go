package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/memberhub/internal/app/system/normalize"
	"github.com/dalemusser/memberhub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// NewOwnerID returns a unique subject identifier in the shape the identity
// provider hands out.
func NewOwnerID() string {
	return "auth0|" + uuid.NewString()
}

// InsertMember writes a member document directly, bypassing the store. Use it
// to stage data whose creation path is not what the test is exercising.
func (f *Fixtures) InsertMember(ctx context.Context, m models.Member) models.Member {
	f.t.Helper()

	if m.ID == "" {
		m.ID = NewOwnerID()
	}
	if m.Interests == nil {
		m.Interests = []string{}
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if m.LastUpdatedAt.IsZero() {
		m.LastUpdatedAt = m.CreatedAt
	}

	if _, err := f.db.Collection("members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to insert test member: %v", err)
	}
	return m
}

// InsertPublicMember writes a publicly-visible member with the given slug,
// first name, and creation time.
func (f *Fixtures) InsertPublicMember(ctx context.Context, slug, firstName string, createdAt time.Time) models.Member {
	f.t.Helper()

	return f.InsertMember(ctx, models.Member{
		ProfileSlug:   slug,
		FirstName:     firstName,
		CanFeature:    true,
		IsDeactivated: false,
		CreatedAt:     createdAt,
		LastUpdatedAt: createdAt,
	})
}

// InsertReservation writes a slug reservation directly.
func (f *Fixtures) InsertReservation(ctx context.Context, slug, referenceID string, createdAt time.Time) models.SlugReservation {
	f.t.Helper()

	r := models.SlugReservation{
		Slug:        normalize.Slug(slug),
		Type:        models.SlugTypeMember,
		ReferenceID: referenceID,
		CreatedAt:   createdAt,
	}
	if _, err := f.db.Collection("slugs").InsertOne(ctx, r); err != nil {
		f.t.Fatalf("failed to insert test slug reservation: %v", err)
	}
	return r
}
