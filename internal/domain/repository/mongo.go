package repository

import (
	"context"
	"errors"
	"fmt"

	"contest_judge/internal/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	contestsCollection    = "contests"
	problemsCollection    = "problems"
	submissionsCollection = "submissions"
)

// EnsureMongoIndexes creates the indexes the contest store relies on. It is safe to call on every start.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		contestsCollection: {
			{Keys: bson.D{{Key: "start_at", Value: -1}}},
		},
		problemsCollection: {
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		submissionsCollection: {
			{Keys: bson.D{
				{Key: "contest_id", Value: 1},
				{Key: "user_id", Value: 1},
				{Key: "problem_id", Value: 1},
				{Key: "created_at", Value: 1},
			}},
			{Keys: bson.D{{Key: "contest_id", Value: 1}, {Key: "verdict", Value: 1}}},
		},
	}
	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models, options.CreateIndexes()); err != nil {
			return fmt.Errorf("EnsureMongoIndexes(%s): %w", coll, err)
		}
	}
	return nil
}

// mongoErr maps driver errors onto the common sentinels.
func mongoErr(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return common.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %v: %w", op, err, common.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}
