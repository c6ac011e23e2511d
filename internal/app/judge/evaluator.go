package judge

import (
	"context"
	"strings"
	"time"

	"contest_judge/internal/domain/model"
	"contest_judge/internal/platform/judge0"

	"github.com/google/uuid"
)

// Runner executes a single source/input pair. *judge0.Client satisfies it.
type Runner interface {
	Run(ctx context.Context, req judge0.Request) (*judge0.Result, error)
}

// Evaluate runs sourceCode against the problem's test cases in stored order and stops at the first
// case that is not Accepted. A runner error is graded as Internal Error for that case.
func Evaluate(ctx context.Context, runner Runner, problem *model.Problem, languageID int, sourceCode string) model.Grade {
	grade := model.Grade{
		Verdict: model.VerdictAccepted,
		Total:   len(problem.TestCases),
	}
	var stdout, stderr strings.Builder

	for _, tc := range problem.TestCases {
		expected := tc.Output
		res, err := runner.Run(ctx, judge0.Request{
			SourceCode:     sourceCode,
			LanguageID:     languageID,
			Stdin:          tc.Input,
			ExpectedOutput: &expected,
			CPUTimeLimit:   problem.TimeLimit,
			MemoryLimit:    problem.MemoryLimit,
		})
		if err != nil {
			stderr.WriteString(err.Error())
			stderr.WriteString("\n")
			grade.Verdict = model.VerdictInternalError
			break
		}

		if ms := res.TimeMs(); ms > grade.ExecTimeMs {
			grade.ExecTimeMs = ms
		}
		stdout.WriteString(res.Stdout)
		stdout.WriteString("\n")
		stderr.WriteString(diagnostics(res))
		stderr.WriteString("\n")

		verdict := model.VerdictFromStatus(res.StatusID)
		if !verdict.IsAccepted() {
			grade.Verdict = verdict
			break
		}
		grade.Passed++
	}

	grade.Stdout = model.Truncate(stdout.String(), model.MaxOutputLength)
	grade.Stderr = model.Truncate(stderr.String(), model.MaxOutputLength)
	return grade
}

// RunOnce executes a single custom input. Runner errors are returned to the caller.
func RunOnce(ctx context.Context, runner Runner, problem *model.Problem, languageID int, sourceCode, stdin string, expectedOutput *string) (*model.RunResult, error) {
	res, err := runner.Run(ctx, judge0.Request{
		SourceCode:     sourceCode,
		LanguageID:     languageID,
		Stdin:          stdin,
		ExpectedOutput: expectedOutput,
		CPUTimeLimit:   problem.TimeLimit,
		MemoryLimit:    problem.MemoryLimit,
	})
	if err != nil {
		return nil, err
	}
	return &model.RunResult{
		Verdict:  model.VerdictFromStatus(res.StatusID),
		TimeMs:   res.TimeMs(),
		Stdout:   model.Truncate(res.Stdout, model.MaxOutputLength),
		Stderr:   model.Truncate(diagnostics(res), model.MaxOutputLength),
		StatusID: res.StatusID,
	}, nil
}

// diagnostics joins runtime stderr with any compiler output.
func diagnostics(res *judge0.Result) string {
	switch {
	case res.CompileOutput == "":
		return res.Stderr
	case res.Stderr == "":
		return res.CompileOutput
	}
	return res.Stderr + "\n" + res.CompileOutput
}

type SubmissionInput struct {
	UserID     string
	ContestID  string
	ProblemID  string
	LanguageID int
	SourceCode string
}

// NewSubmission builds the record to persist for a graded submission.
func NewSubmission(in SubmissionInput, grade model.Grade, now time.Time) *model.Submission {
	return &model.Submission{
		ID:         uuid.NewString(),
		UserID:     in.UserID,
		ContestID:  in.ContestID,
		ProblemID:  in.ProblemID,
		LanguageID: in.LanguageID,
		SourceCode: in.SourceCode,
		Verdict:    grade.Verdict,
		Passed:     grade.Passed,
		Total:      grade.Total,
		ExecTimeMs: grade.ExecTimeMs,
		Stdout:     grade.Stdout,
		Stderr:     grade.Stderr,
		CreatedAt:  now,
	}
}
