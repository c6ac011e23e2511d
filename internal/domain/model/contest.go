package model

import (
	"time"

	"contest_judge/internal/common"
)

type ContestVisibility string

const (
	VisibilityPublic  ContestVisibility = "public"
	VisibilityPrivate ContestVisibility = "private"
)

type Contest struct {
	ID          string            `json:"id" bson:"_id"`
	Title       string            `json:"title" bson:"title"`
	Slug        string            `json:"slug" bson:"slug"`
	Description string            `json:"description" bson:"description"`
	StartAt     time.Time         `json:"start_at" bson:"start_at"`
	EndAt       time.Time         `json:"end_at" bson:"end_at"`
	Problems    []string          `json:"problems,omitempty" bson:"problems"` // Problem IDs in display order
	CreatedBy   string            `json:"created_by" bson:"created_by"`
	Visibility  ContestVisibility `json:"visibility" bson:"visibility"`
	CreatedAt   time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" bson:"updated_at"`
}

// ContestDetail is a contest with its attached problems summarized in display order.
type ContestDetail struct {
	Contest
	Problems []ProblemSummary `json:"problems"`
}

// CheckWindow fails with ErrForbidden when now is outside [StartAt, EndAt].
func (c *Contest) CheckWindow(now time.Time) error {
	if now.Before(c.StartAt) {
		return common.Errorf("contest has not started yet: %w", common.ErrForbidden)
	}
	if now.After(c.EndAt) {
		return common.Errorf("contest has ended: %w", common.ErrForbidden)
	}
	return nil
}

func (c *Contest) HasProblem(problemID string) bool {
	for _, id := range c.Problems {
		if id == problemID {
			return true
		}
	}
	return false
}
