package judge

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"contest_judge/internal/domain/model"
	"contest_judge/internal/platform/judge0"
)

// scriptedRunner answers each call with the next scripted result.
type scriptedRunner struct {
	results []scriptedResult
	calls   []judge0.Request
}

type scriptedResult struct {
	res *judge0.Result
	err error
}

func (r *scriptedRunner) Run(ctx context.Context, req judge0.Request) (*judge0.Result, error) {
	r.calls = append(r.calls, req)
	next := r.results[len(r.calls)-1]
	return next.res, next.err
}

func ok(stdout, secs string) scriptedResult {
	return scriptedResult{res: &judge0.Result{StatusID: 3, Stdout: stdout, Time: secs}}
}

func status(id int, stdout, stderr, secs string) scriptedResult {
	return scriptedResult{res: &judge0.Result{StatusID: id, Stdout: stdout, Stderr: stderr, Time: secs}}
}

func adderProblem() *model.Problem {
	return &model.Problem{
		ID: "p1",
		TestCases: []model.TestCase{
			{Input: "2 3", Output: "5", IsHidden: true},
			{Input: "10 20", Output: "30", IsHidden: true},
		},
		TimeLimit:   2.0,
		MemoryLimit: 128000,
	}
}

func TestEvaluateAllAccepted(t *testing.T) {
	runner := &scriptedRunner{results: []scriptedResult{ok("5", "0.010"), ok("30", "0.020")}}

	grade := Evaluate(context.Background(), runner, adderProblem(), 71, "adder")

	if len(runner.calls) != 2 {
		t.Fatalf("expected 2 execution calls, got %d", len(runner.calls))
	}
	if grade.Verdict != model.VerdictAccepted || grade.Passed != 2 || grade.Total != 2 {
		t.Fatalf("unexpected grade: %+v", grade)
	}
	if grade.ExecTimeMs != 20 {
		t.Fatalf("expected max time 20ms, got %d", grade.ExecTimeMs)
	}
	if grade.Stdout != "5\n30\n" {
		t.Fatalf("unexpected stdout: %q", grade.Stdout)
	}
	first := runner.calls[0]
	if first.Stdin != "2 3" || *first.ExpectedOutput != "5" || first.CPUTimeLimit != 2.0 || first.MemoryLimit != 128000 || first.LanguageID != 71 {
		t.Fatalf("unexpected request: %+v", first)
	}
}

func TestEvaluateWrongAnswerOnSecondCase(t *testing.T) {
	runner := &scriptedRunner{results: []scriptedResult{ok("5", "0.010"), status(4, "31", "", "0.030")}}

	grade := Evaluate(context.Background(), runner, adderProblem(), 71, "almost-adder")

	if len(runner.calls) != 2 {
		t.Fatalf("expected 2 execution calls, got %d", len(runner.calls))
	}
	if grade.Verdict != model.VerdictWrongAnswer || grade.Passed != 1 || grade.Total != 2 {
		t.Fatalf("unexpected grade: %+v", grade)
	}
	if grade.ExecTimeMs != 30 {
		t.Fatalf("failing case time must count, got %d", grade.ExecTimeMs)
	}
}

func TestEvaluateStopsAtFirstFailure(t *testing.T) {
	problem := &model.Problem{TestCases: make([]model.TestCase, 5)}
	runner := &scriptedRunner{results: []scriptedResult{
		ok("", "0.1"),
		ok("", "0.1"),
		status(5, "", "", "2.0"),
		ok("", "0.1"),
		ok("", "0.1"),
	}}

	grade := Evaluate(context.Background(), runner, problem, 54, "slow")

	if len(runner.calls) != 3 {
		t.Fatalf("cases after the failing one must not run, got %d calls", len(runner.calls))
	}
	if grade.Verdict != model.VerdictTimeLimitExceeded || grade.Passed != 2 || grade.Total != 5 {
		t.Fatalf("unexpected grade: %+v", grade)
	}
	if grade.ExecTimeMs != 2000 {
		t.Fatalf("expected 2000ms, got %d", grade.ExecTimeMs)
	}
}

func TestEvaluateCompilationErrorOnFirstCase(t *testing.T) {
	runner := &scriptedRunner{results: []scriptedResult{status(6, "", "syntax error", "")}}

	grade := Evaluate(context.Background(), runner, adderProblem(), 71, "broken(")

	if len(runner.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(runner.calls))
	}
	if grade.Verdict != model.VerdictCompilationError || grade.Passed != 0 {
		t.Fatalf("unexpected grade: %+v", grade)
	}
	if grade.Stderr != "syntax error\n" {
		t.Fatalf("unexpected stderr: %q", grade.Stderr)
	}
}

func TestEvaluateContainsRunnerFailure(t *testing.T) {
	runner := &scriptedRunner{results: []scriptedResult{
		ok("5", "0.010"),
		{err: errors.New("judge0.Run: connection refused")},
	}}

	grade := Evaluate(context.Background(), runner, adderProblem(), 71, "adder")

	if grade.Verdict != model.VerdictInternalError || grade.Passed != 1 || grade.Total != 2 {
		t.Fatalf("unexpected grade: %+v", grade)
	}
	if !strings.Contains(grade.Stderr, "connection refused") {
		t.Fatalf("expected failure in stderr, got %q", grade.Stderr)
	}
}

func TestEvaluateUnknownStatusIsInternalError(t *testing.T) {
	runner := &scriptedRunner{results: []scriptedResult{status(13, "", "", "")}}

	grade := Evaluate(context.Background(), runner, adderProblem(), 71, "x")

	if grade.Verdict != model.VerdictInternalError || grade.Passed != 0 {
		t.Fatalf("unexpected grade: %+v", grade)
	}
}

func TestEvaluateTruncatesOutput(t *testing.T) {
	big := strings.Repeat("x", 8000)
	runner := &scriptedRunner{results: []scriptedResult{
		status(3, big, big, "0.1"),
		status(3, big, big, "0.1"),
	}}

	grade := Evaluate(context.Background(), runner, adderProblem(), 71, "noisy")

	if len(grade.Stdout) != model.MaxOutputLength || len(grade.Stderr) != model.MaxOutputLength {
		t.Fatalf("expected outputs truncated to %d, got %d/%d", model.MaxOutputLength, len(grade.Stdout), len(grade.Stderr))
	}
	if grade.Verdict != model.VerdictAccepted {
		t.Fatalf("unexpected verdict: %s", grade.Verdict)
	}
}

func TestEvaluateWithoutTestCases(t *testing.T) {
	runner := &scriptedRunner{}

	grade := Evaluate(context.Background(), runner, &model.Problem{}, 71, "x")

	if len(runner.calls) != 0 || grade.Verdict != model.VerdictAccepted || grade.Passed != 0 || grade.Total != 0 {
		t.Fatalf("unexpected grade: %+v", grade)
	}
}

func TestRunOnce(t *testing.T) {
	runner := &scriptedRunner{results: []scriptedResult{status(4, "7\n", "", "0.004")}}
	expected := "8"

	res, err := RunOnce(context.Background(), runner, adderProblem(), 71, "x", "3 4", &expected)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.Verdict != model.VerdictWrongAnswer || res.StatusID != 4 || res.TimeMs != 4 || res.Stdout != "7\n" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if runner.calls[0].Stdin != "3 4" || *runner.calls[0].ExpectedOutput != "8" {
		t.Fatalf("unexpected request: %+v", runner.calls[0])
	}

	failing := &scriptedRunner{results: []scriptedResult{{err: errors.New("down")}}}
	if _, err := RunOnce(context.Background(), failing, adderProblem(), 71, "x", "", nil); err == nil {
		t.Fatalf("expected runner error to be returned")
	}
}

func TestNewSubmission(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	grade := model.Grade{Verdict: model.VerdictWrongAnswer, Passed: 1, Total: 2, ExecTimeMs: 30, Stdout: "5\n31\n"}

	sub := NewSubmission(SubmissionInput{UserID: "u1", ContestID: "c1", ProblemID: "p1", LanguageID: 71, SourceCode: "src"}, grade, now)

	if sub.ID == "" || sub.UserID != "u1" || sub.ContestID != "c1" || sub.ProblemID != "p1" {
		t.Fatalf("unexpected identity fields: %+v", sub)
	}
	if sub.Verdict != model.VerdictWrongAnswer || sub.Passed != 1 || sub.Total != 2 || sub.ExecTimeMs != 30 || !sub.CreatedAt.Equal(now) {
		t.Fatalf("unexpected grade fields: %+v", sub)
	}
}

func TestCompilerOutputReachesStderr(t *testing.T) {
	compileErr := func(stderr, compile string) scriptedResult {
		return scriptedResult{res: &judge0.Result{StatusID: 6, Stderr: stderr, CompileOutput: compile}}
	}
	tests := []struct {
		name   string
		result scriptedResult
		want   string
	}{
		{"compile output only", compileErr("", "main.cpp:1: error: expected ';'"), "main.cpp:1: error: expected ';'"},
		{"stderr and compile output", compileErr("warning: unused", "main.cpp:3: error"), "warning: unused\nmain.cpp:3: error"},
		{"stderr only", compileErr("boom", ""), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grade := Evaluate(context.Background(), &scriptedRunner{results: []scriptedResult{tt.result}}, adderProblem(), 54, "int main(")
			if grade.Verdict != model.VerdictCompilationError || grade.Stderr != tt.want+"\n" {
				t.Fatalf("Evaluate: got %s %q, want stderr %q", grade.Verdict, grade.Stderr, tt.want+"\n")
			}

			res, err := RunOnce(context.Background(), &scriptedRunner{results: []scriptedResult{tt.result}}, adderProblem(), 54, "int main(", "", nil)
			if err != nil {
				t.Fatalf("RunOnce: %v", err)
			}
			if res.Verdict != model.VerdictCompilationError || res.Stderr != tt.want {
				t.Fatalf("RunOnce: got %s %q, want stderr %q", res.Verdict, res.Stderr, tt.want)
			}
		})
	}
}
