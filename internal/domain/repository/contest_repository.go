package repository

import (
	"context"
	"time"

	"contest_judge/internal/domain/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ContestRepository interface {
	Create(ctx context.Context, contest *model.Contest) error
	FindByID(ctx context.Context, id string) (*model.Contest, error)
	List(ctx context.Context) ([]model.Contest, error)
	// AppendProblems adds the ids that are not attached yet in one atomic update and returns the
	// problem list as it was before the update.
	AppendProblems(ctx context.Context, contestID string, problemIDs []string) ([]string, error)
}

type mongoContestRepository struct {
	contests *mongo.Collection
}

func NewMongoContestRepository(db *mongo.Database) ContestRepository {
	return &mongoContestRepository{contests: db.Collection(contestsCollection)}
}

func (r *mongoContestRepository) Create(ctx context.Context, c *model.Contest) error {
	if c.Problems == nil {
		c.Problems = []string{}
	}
	if _, err := r.contests.InsertOne(ctx, c); err != nil {
		return mongoErr("mongoContestRepository.Create", err)
	}
	return nil
}

func (r *mongoContestRepository) FindByID(ctx context.Context, id string) (*model.Contest, error) {
	var c model.Contest
	if err := r.contests.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, mongoErr("mongoContestRepository.FindByID", err)
	}
	return &c, nil
}

func (r *mongoContestRepository) List(ctx context.Context) ([]model.Contest, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "start_at", Value: -1}}).
		SetProjection(bson.M{"problems": 0})

	cursor, err := r.contests.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, mongoErr("mongoContestRepository.List", err)
	}
	defer cursor.Close(ctx)

	contests := []model.Contest{}
	if err := cursor.All(ctx, &contests); err != nil {
		return nil, mongoErr("mongoContestRepository.List", err)
	}
	return contests, nil
}

func (r *mongoContestRepository) AppendProblems(ctx context.Context, contestID string, problemIDs []string) ([]string, error) {
	update := bson.M{
		"$addToSet": bson.M{"problems": bson.M{"$each": problemIDs}},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.Before).
		SetProjection(bson.M{"problems": 1})

	var before model.Contest
	if err := r.contests.FindOneAndUpdate(ctx, bson.M{"_id": contestID}, update, opts).Decode(&before); err != nil {
		return nil, mongoErr("mongoContestRepository.AppendProblems", err)
	}
	if before.Problems == nil {
		before.Problems = []string{}
	}
	return before.Problems, nil
}
