package model

import "time"

type LeaderboardEntry struct {
	Rank           int       `json:"rank"`
	UserID         string    `json:"user_id"`
	Fullname       string    `json:"fullname"`
	Avatar         string    `json:"avatar"`
	Solved         int       `json:"solved"`
	LastAcceptedAt time.Time `json:"last_accepted_at"`
}

// FirstAcceptance is the earliest Accepted submission of a user for one problem.
type FirstAcceptance struct {
	UserID          string    `bson:"user_id"`
	ProblemID       string    `bson:"problem_id"`
	FirstAcceptedAt time.Time `bson:"first_accepted_at"`
}
