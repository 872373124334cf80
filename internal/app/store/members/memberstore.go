// internal/app/store/members/memberstore.go
package memberstore

import (
	"context"
	"errors"
	"time"

	slugstore "github.com/dalemusser/memberhub/internal/app/store/slugs"
	"github.com/dalemusser/memberhub/internal/app/system/cursor"
	"github.com/dalemusser/memberhub/internal/app/system/dateforge"
	"github.com/dalemusser/memberhub/internal/app/system/errorreport"
	"github.com/dalemusser/memberhub/internal/app/system/normalize"
	"github.com/dalemusser/memberhub/internal/app/system/sanitize"
	"github.com/dalemusser/memberhub/internal/app/system/txn"
	"github.com/dalemusser/memberhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

// Store owns the members collection. All writes to member documents and their
// slug reservations go through here; the slug registry and error reporter are
// injected capabilities so tests can substitute them.
type Store struct {
	client *mongo.Client
	c      *mongo.Collection
	slugs  *slugstore.Store
	report errorreport.Reporter
}

func New(db *mongo.Database, slugs *slugstore.Store, report errorreport.Reporter) *Store {
	return &Store{
		client: db.Client(),
		c:      db.Collection("members"),
		slugs:  slugs,
		report: report,
	}
}

var (
	// ErrSlugTaken means the requested profile slug already has a
	// reservation. Expected, user-correctable; never reported.
	ErrSlugTaken = errors.New("profile slug is taken, it cannot be used to create a new profile")

	// ErrPersistence is the generic failure returned when the create
	// transaction fails. Full detail goes to the error reporter, not the
	// caller.
	ErrPersistence = errors.New("failed to write member profile and slug")

	// ErrDataIntegrity means a slug matched more than one member, which the
	// reservation system is supposed to make impossible.
	ErrDataIntegrity = errors.New("slug is associated with multiple members")

	// ErrInvalidCursor is returned by the created-order listing when a
	// cursor fails to decode. The name-order listing deliberately returns a
	// nil page instead.
	ErrInvalidCursor = cursor.ErrInvalid
)

// Profile is the member-supplied profile payload for Create.
type Profile struct {
	ProfileSlug   string
	FirstName     string
	LastName      string
	Company       string
	JobTitle      string
	Bio           string
	Interests     []string
	CanFeature    bool
	IsDeactivated bool
	ProfileLinks  []models.ProfileLink
}

// scrubNew normalizes an incoming profile into a storable member document:
// timestamps set, interests defaulted to an empty list, free text sanitized.
func scrubNew(ownerID string, p Profile, now time.Time) models.Member {
	m := models.Member{
		ID:            ownerID,
		ProfileSlug:   normalize.Name(p.ProfileSlug),
		FirstName:     sanitize.Text(p.FirstName),
		LastName:      sanitize.Text(p.LastName),
		Company:       sanitize.Text(p.Company),
		JobTitle:      sanitize.Text(p.JobTitle),
		Bio:           sanitize.Bio(p.Bio),
		Interests:     p.Interests,
		CanFeature:    p.CanFeature,
		IsDeactivated: p.IsDeactivated,
		ProfileLinks:  p.ProfileLinks,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}
	if m.Interests == nil {
		m.Interests = []string{}
	}
	return m
}

// IsSlugTaken reports whether the slug already has a reservation. Advisory:
// the binding guarantee is the create transaction's insert-only semantics.
func (s *Store) IsSlugTaken(ctx context.Context, slug string) (bool, error) {
	return s.slugs.IsTaken(ctx, normalize.Slug(slug))
}

// Create stores a new member profile keyed by the owner's subject identifier
// and atomically reserves its slug.
//
// The pre-check gives a friendly ErrSlugTaken in the common non-racing case;
// a race that slips past it fails the transaction instead, because both
// inserts are create-only (duplicate _id on either document aborts the whole
// write). Transaction failures are reported with the full payload and
// surfaced as ErrPersistence.
func (s *Store) Create(ctx context.Context, ownerID string, p Profile) (models.Member, error) {
	m := scrubNew(ownerID, p, time.Now())

	taken, err := s.IsSlugTaken(ctx, m.ProfileSlug)
	if err != nil {
		return models.Member{}, err
	}
	if taken {
		return models.Member{}, ErrSlugTaken
	}

	res := slugstore.MakeReservation(m.ProfileSlug, ownerID, m.CreatedAt)

	err = txn.WithTransaction(ctx, s.client, func(sc mongo.SessionContext) error {
		if _, err := s.c.InsertOne(sc, m); err != nil {
			return err
		}
		return s.slugs.Insert(sc, res)
	})
	if txn.IsNotSupported(err) {
		err = s.createSequential(ctx, m, res)
	}
	if err != nil {
		s.report.Report(err, errorreport.Context{
			"op":          "memberstore.Create",
			"member":      m,
			"reservation": res,
		})
		return models.Member{}, ErrPersistence
	}

	return dateforge.Member(m), nil
}

// createSequential is the fallback for deployments without transaction
// support (standalone mongod in dev/test). Insert order puts the reservation
// last so its unique _id still arbitrates slug races; a failed reservation
// rolls the member document back best-effort.
func (s *Store) createSequential(ctx context.Context, m models.Member, res models.SlugReservation) error {
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return err
	}
	if err := s.slugs.Insert(ctx, res); err != nil {
		_, _ = s.c.DeleteOne(ctx, bson.M{"_id": m.ID})
		return err
	}
	return nil
}

// ProfilePatch is the partial payload for Update. Nil pointer fields are left
// untouched on the stored document. Interests is always written: a nil slice
// is stored as an empty list, matching create's defaulting.
type ProfilePatch struct {
	ProfileSlug   *string
	FirstName     *string
	LastName      *string
	Company       *string
	JobTitle      *string
	Bio           *string
	CanFeature    *bool
	IsDeactivated *bool
	Interests     []string
	ProfileLinks  []models.ProfileLink
}

// Update merges the provided fields onto the member document, refreshes
// last_updated_at (never created_at), and returns the re-read record.
//
// Update does not revalidate slug uniqueness; changing a slug here bypasses
// the reservation system. Known gap; the unique slug index is the backstop.
func (s *Store) Update(ctx context.Context, memberID string, p ProfilePatch) (models.Member, error) {
	set := bson.M{
		"last_updated_at": time.Now(),
	}
	if p.ProfileSlug != nil {
		set["profile_slug"] = normalize.Name(*p.ProfileSlug)
	}
	if p.FirstName != nil {
		set["first_name"] = sanitize.Text(*p.FirstName)
	}
	if p.LastName != nil {
		set["last_name"] = sanitize.Text(*p.LastName)
	}
	if p.Company != nil {
		set["company"] = sanitize.Text(*p.Company)
	}
	if p.JobTitle != nil {
		set["job_title"] = sanitize.Text(*p.JobTitle)
	}
	if p.Bio != nil {
		set["bio"] = sanitize.Bio(*p.Bio)
	}
	if p.CanFeature != nil {
		set["can_feature"] = *p.CanFeature
	}
	if p.IsDeactivated != nil {
		set["is_deactivated"] = *p.IsDeactivated
	}
	if p.Interests != nil {
		set["interests"] = p.Interests
	} else {
		set["interests"] = []string{}
	}
	if p.ProfileLinks != nil {
		set["profile_links"] = p.ProfileLinks
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": memberID}, bson.M{"$set": set})
	if err != nil {
		return models.Member{}, err
	}
	if res.MatchedCount == 0 {
		return models.Member{}, mongo.ErrNoDocuments
	}

	var m models.Member
	if err := s.c.FindOne(ctx, bson.M{"_id": memberID}).Decode(&m); err != nil {
		return models.Member{}, err
	}
	return dateforge.Member(m), nil
}

// Remove deletes the member document and returns the id.
//
// TODO: the slug reservation is left in place, so a removed member's slug
// stays claimed. Cleaning it up would make the slug reusable, which changes
// observable behavior, so it needs a product decision first.
func (s *Store) Remove(ctx context.Context, memberID string) (string, error) {
	if _, err := s.c.DeleteOne(ctx, bson.M{"_id": memberID}); err != nil {
		return "", err
	}
	return memberID, nil
}

// GetByID loads a member with no visibility filtering. Used for the owning
// member's view of their own profile. Returns nil when not found.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Member, error) {
	var m models.Member
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m = dateforge.Member(m)
	return &m, nil
}

// GetPublicByID loads a member for public display: nil unless the member is
// publicly visible, and profile links filtered to public entries. A hidden
// member is indistinguishable from a missing one.
func (s *Store) GetPublicByID(ctx context.Context, id string) (*models.Member, error) {
	var m models.Member
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !m.IsPubliclyVisible() {
		return nil, nil
	}
	m.ProfileLinks = m.PublicProfileLinks()
	m = dateforge.Member(m)
	return &m, nil
}

// GetBySlug finds the publicly-visible member owning a slug. The lookup is
// case-insensitive and filters profile links to public entries. More than one
// match means the uniqueness guarantee is broken and is surfaced as
// ErrDataIntegrity rather than resolved by picking one.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*models.Member, error) {
	filter := bson.M{
		"profile_slug":   normalize.Slug(slug),
		"can_feature":    true,
		"is_deactivated": false,
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetLimit(2))
	if err != nil {
		return nil, err
	}
	var matches []models.Member
	if err := cur.All(ctx, &matches); err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		m := matches[0]
		m.ProfileLinks = m.PublicProfileLinks()
		m = dateforge.Member(m)
		return &m, nil
	default:
		s.report.Report(ErrDataIntegrity, errorreport.Context{
			"op":   "memberstore.GetBySlug",
			"slug": slug,
		})
		return nil, ErrDataIntegrity
	}
}

// GetIDFromSlug resolves a slug to its owning member id. Unlike the other
// slug lookups this matches the stored value case-sensitively, which is the
// original lookup contract and is covered by tests; do not "fix" it to
// lower-case without reconciling callers.
func (s *Store) GetIDFromSlug(ctx context.Context, slug string) (*models.SlugRef, error) {
	filter := bson.M{"profile_slug": slug}
	opts := options.Find().
		SetProjection(bson.M{"profile_slug": 1}).
		SetLimit(2)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var matches []models.SlugRef
	if err := cur.All(ctx, &matches); err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return &models.SlugRef{ID: matches[0].ID, ProfileSlug: slug}, nil
	default:
		s.report.Report(ErrDataIntegrity, errorreport.Context{
			"op":   "memberstore.GetIDFromSlug",
			"slug": slug,
		})
		return nil, ErrDataIntegrity
	}
}

// GetSlugByID returns the id/slug pair for an existing member, nil otherwise.
func (s *Store) GetSlugByID(ctx context.Context, id string) (*models.SlugRef, error) {
	var ref models.SlugRef
	err := s.c.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"profile_slug": 1})).Decode(&ref)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// BatchEntry is one result of GetByIDs. A missing id comes back with Found
// false; callers must handle that shape rather than assume every id resolved.
type BatchEntry struct {
	ID     string
	Found  bool
	Member models.Member
}

// GetByIDs fetches all requested members concurrently. The result slice is
// positional with the input ids. A missing document is not an error; only a
// failing fetch is.
func (s *Store) GetByIDs(ctx context.Context, ids []string) ([]BatchEntry, error) {
	entries := make([]BatchEntry, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			var m models.Member
			err := s.c.FindOne(gctx, bson.M{"_id": id}).Decode(&m)
			if err == mongo.ErrNoDocuments {
				entries[i] = BatchEntry{ID: id}
				return nil
			}
			if err != nil {
				return err
			}
			entries[i] = BatchEntry{ID: id, Found: true, Member: dateforge.Member(m)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Page is one page of a public listing plus the cursor that resumes after it.
type Page struct {
	Cursor  string
	Members []models.Member
}

func publicFilter() bson.M {
	return bson.M{
		"can_feature":    true,
		"is_deactivated": false,
	}
}

// FetchPublicByCreated lists publicly-visible members newest-first.
//
// The cursor is base64 over {"curStartAfter": <RFC 3339 date>}; a cursor that
// fails to decode returns ErrInvalidCursor. A page with no results is a nil
// Page, which callers treat as "nothing found / no more".
func (s *Store) FetchPublicByCreated(ctx context.Context, limit int, startAfter string) (*Page, error) {
	filter := publicFilter()
	if startAfter != "" {
		after, err := cursor.DecodeCreated(startAfter)
		if err != nil {
			return nil, err
		}
		filter["created_at"] = bson.M{"$lt": after}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(cursor.ClampLimit(limit)))
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var members []models.Member
	if err := cur.All(ctx, &members); err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}

	next := ""
	if last := members[len(members)-1]; !last.CreatedAt.IsZero() {
		next = cursor.EncodeCreated(dateforge.Forge(last.CreatedAt))
	}

	for i := range members {
		members[i] = dateforge.Member(members[i])
	}
	return &Page{Cursor: next, Members: members}, nil
}

// FetchPublicByFirstName lists publicly-visible members ordered by
// (first_name asc, created_at asc). first_name alone is not unique, so the
// created_at tie-break keeps the ordering total and page boundaries stable.
//
// The cursor is base64 over "<firstName>||<createdAt>". A malformed cursor
// returns a nil page, not an error; that asymmetry with the created-order
// listing is deliberate and covered by tests.
func (s *Store) FetchPublicByFirstName(ctx context.Context, limit int, startAfter string) (*Page, error) {
	filter := publicFilter()
	if startAfter != "" {
		name, after, ok := cursor.DecodeName(startAfter)
		if !ok {
			return nil, nil
		}
		filter["$or"] = bson.A{
			bson.M{"first_name": bson.M{"$gt": name}},
			bson.M{"first_name": name, "created_at": bson.M{"$gt": after}},
		}
	}

	opts := options.Find().
		SetSort(bson.D{
			{Key: "first_name", Value: 1},
			{Key: "created_at", Value: 1},
		}).
		SetLimit(int64(cursor.ClampLimit(limit)))
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var members []models.Member
	if err := cur.All(ctx, &members); err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}

	last := members[len(members)-1]
	next := cursor.EncodeName(last.FirstName, last.CreatedAt)

	for i := range members {
		members[i] = dateforge.Member(members[i])
	}
	return &Page{Cursor: next, Members: members}, nil
}
