// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureMembers(ctx, db); err != nil {
		problems = append(problems, "members: "+err.Error())
	}
	if err := ensureSlugs(ctx, db); err != nil {
		problems = append(problems, "slugs: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameUnique(a, b *bool) bool {
	av := a != nil && *a
	bv := b != nil && *b
	return av == bv
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, desired []mongo.IndexModel) error {
	// Load what's there once; reconcile each desired index against it.
	existing := map[string]existingIndex{} // key signature -> index
	cur, err := coll.Indexes().List(ctx)
	if err == nil {
		defer cur.Close(ctx)
		for cur.Next(ctx) {
			var idx existingIndex
			if err := cur.Decode(&idx); err != nil {
				zap.L().Warn("failed to decode existing index",
					zap.String("collection", coll.Name()),
					zap.Error(err))
				continue
			}
			existing[keySig(idx.Key)] = idx
		}
	}

	var errs []string
	for _, m := range desired {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			desiredUnique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()

		if ex, ok := existing[sig]; ok && sameUnique(desiredUnique, ex.Unique) {
			zap.L().Info("reusing existing index",
				zap.String("collection", coll.Name()),
				zap.String("name", ex.Name),
				zap.String("keys", sig))
			continue
		} else if ok {
			// Options mismatch (e.g., upgrading to unique). Drop & recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			continue
		}
		zap.L().Info("index created",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", sig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collections                                                                */
/* -------------------------------------------------------------------------- */

func ensureMembers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("members")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// 1) Exact-match slug lookups (GetBySlug, GetIDFromSlug). Unique as a
		//    backstop behind the slugs-collection reservations: reservations
		//    arbitrate races, this index catches anything that slips past
		//    them through the unguarded update path.
		{
			Keys:    bson.D{{Key: "profile_slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_members_profile_slug"),
		},

		// 2) Created-order public listing:
		//    {can_feature, is_deactivated} equality prefix, then the sort key.
		{
			Keys: bson.D{
				{Key: "can_feature", Value: 1},
				{Key: "is_deactivated", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_members_public_createdat"),
		},

		// 3) Name-order public listing with its created_at tie-break.
		{
			Keys: bson.D{
				{Key: "can_feature", Value: 1},
				{Key: "is_deactivated", Value: 1},
				{Key: "first_name", Value: 1},
				{Key: "created_at", Value: 1},
			},
			Options: options.Index().SetName("idx_members_public_firstname_createdat"),
		},
	})
}

func ensureSlugs(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("slugs")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Reservation lookups by owner (reverse lookups, audits). The slug
		// value itself is the _id, which is implicitly unique.
		{
			Keys: bson.D{
				{Key: "type", Value: 1},
				{Key: "reference_id", Value: 1},
			},
			Options: options.Index().SetName("idx_slugs_type_referenceid"),
		},
	})
}
