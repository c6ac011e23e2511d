package repository

import (
	"context"
	"regexp"

	"contest_judge/internal/domain/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProblemFilter struct {
	Query string // case-insensitive title match
	Limit int
	Skip  int
}

type ProblemRepository interface {
	Create(ctx context.Context, problem *model.Problem) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Problem, error)
	// FindExistingIDs returns the subset of ids that exist, in the order given.
	FindExistingIDs(ctx context.Context, ids []string) ([]string, error)
	// FindSummaries returns the listing view of each existing problem, in the order given.
	FindSummaries(ctx context.Context, ids []string) ([]model.ProblemSummary, error)
	List(ctx context.Context, filter ProblemFilter) ([]model.Problem, error)
}

type mongoProblemRepository struct {
	problems *mongo.Collection
}

func NewMongoProblemRepository(db *mongo.Database) ProblemRepository {
	return &mongoProblemRepository{problems: db.Collection(problemsCollection)}
}

func (r *mongoProblemRepository) Create(ctx context.Context, p *model.Problem) error {
	if _, err := r.problems.InsertOne(ctx, p); err != nil {
		return mongoErr("mongoProblemRepository.Create", err)
	}
	return nil
}

func (r *mongoProblemRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.problems.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return mongoErr("mongoProblemRepository.Delete", err)
	}
	return nil
}

func (r *mongoProblemRepository) FindByID(ctx context.Context, id string) (*model.Problem, error) {
	var p model.Problem
	if err := r.problems.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, mongoErr("mongoProblemRepository.FindByID", err)
	}
	return &p, nil
}

func (r *mongoProblemRepository) FindExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.problems.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, mongoErr("mongoProblemRepository.FindExistingIDs", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mongoErr("mongoProblemRepository.FindExistingIDs", err)
	}
	found := make(map[string]bool, len(docs))
	for _, d := range docs {
		found[d.ID] = true
	}
	existing := make([]string, 0, len(docs))
	for _, id := range ids {
		if found[id] {
			existing = append(existing, id)
		}
	}
	return existing, nil
}

func (r *mongoProblemRepository) FindSummaries(ctx context.Context, ids []string) ([]model.ProblemSummary, error) {
	if len(ids) == 0 {
		return []model.ProblemSummary{}, nil
	}
	opts := options.Find().SetProjection(bson.M{
		"title":         1,
		"allowed_langs": 1,
		"time_limit":    1,
		"memory_limit":  1,
	})
	cursor, err := r.problems.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, mongoErr("mongoProblemRepository.FindSummaries", err)
	}
	defer cursor.Close(ctx)

	var docs []model.ProblemSummary
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mongoErr("mongoProblemRepository.FindSummaries", err)
	}
	byID := make(map[string]model.ProblemSummary, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}
	summaries := make([]model.ProblemSummary, 0, len(docs))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			summaries = append(summaries, d)
		}
	}
	return summaries, nil
}

func (r *mongoProblemRepository) List(ctx context.Context, f ProblemFilter) ([]model.Problem, error) {
	filter := bson.M{}
	if f.Query != "" {
		filter["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Query), Options: "i"}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(f.Skip)).
		SetLimit(int64(f.Limit)).
		SetProjection(bson.M{
			"title":         1,
			"slug":          1,
			"allowed_langs": 1,
			"time_limit":    1,
			"memory_limit":  1,
			"created_at":    1,
		})

	cursor, err := r.problems.Find(ctx, filter, opts)
	if err != nil {
		return nil, mongoErr("mongoProblemRepository.List", err)
	}
	defer cursor.Close(ctx)

	problems := []model.Problem{}
	if err := cursor.All(ctx, &problems); err != nil {
		return nil, mongoErr("mongoProblemRepository.List", err)
	}
	return problems, nil
}
