package model

import (
	"time"
)

const (
	DefaultTimeLimit   = 2.0    // seconds
	DefaultMemoryLimit = 128000 // KB
)

// DefaultAllowedLangs are the Judge0 ids for C++, JavaScript, Python 3, Java and C.
var DefaultAllowedLangs = []int{54, 63, 71, 62, 50}

type Problem struct {
	ID           string     `json:"id" bson:"_id"`
	Title        string     `json:"title" bson:"title"`
	Slug         string     `json:"slug" bson:"slug"`
	Statement    string     `json:"statement,omitempty" bson:"statement"`
	InputFormat  string     `json:"input_format,omitempty" bson:"input_format,omitempty"`
	OutputFormat string     `json:"output_format,omitempty" bson:"output_format,omitempty"`
	Constraints  string     `json:"constraints,omitempty" bson:"constraints,omitempty"`
	Samples      []Sample   `json:"samples,omitempty" bson:"samples"`
	TestCases    []TestCase `json:"test_cases,omitempty" bson:"test_cases"`
	AllowedLangs []int      `json:"allowed_langs" bson:"allowed_langs"`
	TimeLimit    float64    `json:"time_limit" bson:"time_limit"`     // seconds
	MemoryLimit  int        `json:"memory_limit" bson:"memory_limit"` // KB
	CreatedBy    string     `json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" bson:"updated_at"`
}

// ProblemSummary is the listing view of a problem shown on the contest page.
type ProblemSummary struct {
	ID           string  `json:"id" bson:"_id"`
	Title        string  `json:"title" bson:"title"`
	AllowedLangs []int   `json:"allowed_langs" bson:"allowed_langs"`
	TimeLimit    float64 `json:"time_limit" bson:"time_limit"`
	MemoryLimit  int     `json:"memory_limit" bson:"memory_limit"`
}

type Sample struct {
	Input  string `json:"input" bson:"input"`
	Output string `json:"output" bson:"output"`
}

type TestCase struct {
	Input    string `json:"input" bson:"input"`
	Output   string `json:"output" bson:"output"`
	IsHidden bool   `json:"is_hidden" bson:"is_hidden"`
}

// AllowsLanguage reports whether languageID may be submitted. An empty list allows everything.
func (p *Problem) AllowsLanguage(languageID int) bool {
	if len(p.AllowedLangs) == 0 {
		return true
	}
	for _, id := range p.AllowedLangs {
		if id == languageID {
			return true
		}
	}
	return false
}

// WithoutHiddenTests returns a copy safe to show to contestants.
func (p Problem) WithoutHiddenTests() Problem {
	visible := make([]TestCase, 0, len(p.TestCases))
	for _, tc := range p.TestCases {
		if !tc.IsHidden {
			visible = append(visible, tc)
		}
	}
	p.TestCases = visible
	return p
}
