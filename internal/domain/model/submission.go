package model

import "time"

// MaxOutputLength caps stored stdout and stderr, in characters.
const MaxOutputLength = 10000

type Submission struct {
	ID         string    `json:"id" bson:"_id"`
	UserID     string    `json:"user_id" bson:"user_id"`
	ContestID  string    `json:"contest_id" bson:"contest_id"`
	ProblemID  string    `json:"problem_id" bson:"problem_id"`
	LanguageID int       `json:"language_id" bson:"language_id"`
	SourceCode string    `json:"source_code" bson:"source_code"`
	Verdict    Verdict   `json:"verdict" bson:"verdict"`
	Passed     int       `json:"passed" bson:"passed"`
	Total      int       `json:"total" bson:"total"`
	ExecTimeMs int       `json:"exec_time_ms" bson:"exec_time_ms"`
	Stdout     string    `json:"stdout" bson:"stdout"`
	Stderr     string    `json:"stderr" bson:"stderr"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// Grade is the outcome of running a source against a problem's test cases.
type Grade struct {
	Verdict    Verdict
	Passed     int
	Total      int
	ExecTimeMs int
	Stdout     string
	Stderr     string
}

// RunResult is returned by a custom test run. It is never stored.
type RunResult struct {
	Verdict  Verdict `json:"verdict"`
	TimeMs   int     `json:"time_ms"`
	Stdout   string  `json:"stdout"`
	Stderr   string  `json:"stderr"`
	StatusID int     `json:"status_id"`
}

type ProblemStatus struct {
	Completed  bool       `json:"completed"`
	AcceptedAt *time.Time `json:"accepted_at"`
}

// Truncate cuts s to at most n characters.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
