package repository

import (
	"context"

	"contest_judge/internal/domain/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SubmissionRepository interface {
	Create(ctx context.Context, sub *model.Submission) error
	// FindFirstAccepted returns the earliest Accepted submission of a user for a problem, or ErrNotFound.
	FindFirstAccepted(ctx context.Context, userID, contestID, problemID string) (*model.Submission, error)
	// FirstAcceptances returns one row per (user, problem) pair with an Accepted submission in the contest.
	FirstAcceptances(ctx context.Context, contestID string) ([]model.FirstAcceptance, error)
}

type mongoSubmissionRepository struct {
	submissions *mongo.Collection
}

func NewMongoSubmissionRepository(db *mongo.Database) SubmissionRepository {
	return &mongoSubmissionRepository{submissions: db.Collection(submissionsCollection)}
}

func (r *mongoSubmissionRepository) Create(ctx context.Context, sub *model.Submission) error {
	if _, err := r.submissions.InsertOne(ctx, sub); err != nil {
		return mongoErr("mongoSubmissionRepository.Create", err)
	}
	return nil
}

func (r *mongoSubmissionRepository) FindFirstAccepted(ctx context.Context, userID, contestID, problemID string) (*model.Submission, error) {
	filter := bson.M{
		"user_id":    userID,
		"contest_id": contestID,
		"problem_id": problemID,
		"verdict":    model.VerdictAccepted,
	}
	opts := options.FindOne().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetProjection(bson.M{"source_code": 0, "stdout": 0, "stderr": 0})

	var sub model.Submission
	if err := r.submissions.FindOne(ctx, filter, opts).Decode(&sub); err != nil {
		return nil, mongoErr("mongoSubmissionRepository.FindFirstAccepted", err)
	}
	return &sub, nil
}

func (r *mongoSubmissionRepository) FirstAcceptances(ctx context.Context, contestID string) ([]model.FirstAcceptance, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"contest_id": contestID, "verdict": model.VerdictAccepted}},
		{"$group": bson.M{
			"_id":               bson.M{"user_id": "$user_id", "problem_id": "$problem_id"},
			"first_accepted_at": bson.M{"$min": "$created_at"},
		}},
		{"$project": bson.M{
			"_id":               0,
			"user_id":           "$_id.user_id",
			"problem_id":        "$_id.problem_id",
			"first_accepted_at": 1,
		}},
	}

	cursor, err := r.submissions.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, mongoErr("mongoSubmissionRepository.FirstAcceptances", err)
	}
	defer cursor.Close(ctx)

	firsts := []model.FirstAcceptance{}
	if err := cursor.All(ctx, &firsts); err != nil {
		return nil, mongoErr("mongoSubmissionRepository.FirstAcceptances", err)
	}
	return firsts, nil
}
