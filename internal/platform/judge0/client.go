package judge0

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"contest_judge/internal/common"
)

// Client talks to a Judge0-compatible execution service in synchronous (wait=true) mode.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type Request struct {
	SourceCode     string
	LanguageID     int
	Stdin          string
	ExpectedOutput *string
	CPUTimeLimit   float64 // seconds
	MemoryLimit    int     // KB
}

type Result struct {
	StatusID          int
	StatusDescription string
	Time              string // seconds, decimal
	Stdout            string
	Stderr            string
	CompileOutput     string
	Token             string
}

// TimeMs converts the reported seconds to whole milliseconds. Missing or malformed values count as 0.
func (r *Result) TimeMs() int {
	if r.Time == "" {
		return 0
	}
	secs, err := strconv.ParseFloat(r.Time, 64)
	if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return 0
	}
	return int(math.Round(secs * 1000))
}

type submissionRequest struct {
	SourceCode     string  `json:"source_code"`
	LanguageID     int     `json:"language_id"`
	Stdin          string  `json:"stdin"`
	ExpectedOutput *string `json:"expected_output,omitempty"`
	CPUTimeLimit   float64 `json:"cpu_time_limit"`
	MemoryLimit    int     `json:"memory_limit"`
}

type submissionResponse struct {
	Token  string `json:"token"`
	Status *struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"status"`
	Time          *string `json:"time"`
	Stdout        *string `json:"stdout"`
	Stderr        *string `json:"stderr"`
	CompileOutput *string `json:"compile_output"`
}

// Run executes one source/input pair and blocks until the service has a result.
func (c *Client) Run(ctx context.Context, req Request) (*Result, error) {
	body := submissionRequest{
		SourceCode:   encode(req.SourceCode),
		LanguageID:   req.LanguageID,
		Stdin:        encode(req.Stdin),
		CPUTimeLimit: req.CPUTimeLimit,
		MemoryLimit:  req.MemoryLimit,
	}
	if req.ExpectedOutput != nil {
		expected := encode(*req.ExpectedOutput)
		body.ExpectedOutput = &expected
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("judge0.Run: marshal request: %w", err)
	}

	q := url.Values{}
	q.Set("base64_encoded", "true")
	q.Set("wait", "true")
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/submissions?"+q.Encode(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("judge0.Run: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	return c.do(httpReq, "judge0.Run")
}

// Get fetches a previously created execution by its token.
func (c *Client) Get(ctx context.Context, token string) (*Result, error) {
	q := url.Values{}
	q.Set("base64_encoded", "true")
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/submissions/"+url.PathEscape(token)+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("judge0.Get: build request: %w", err)
	}
	return c.do(httpReq, "judge0.Get")
}

func (c *Client) do(httpReq *http.Request, op string) (*Result, error) {
	if c.apiKey != "" {
		httpReq.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", op, err, common.ErrServiceUnavailable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %v: %w", op, err, common.ErrServiceUnavailable)
	}
	if resp.StatusCode == http.StatusNotFound && httpReq.Method == http.MethodGet {
		return nil, fmt.Errorf("%s: execution not found: %w", op, common.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s: unexpected status %d: %w", op, resp.StatusCode, common.ErrServiceUnavailable)
	}

	var decoded submissionResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%s: malformed response: %v: %w", op, err, common.ErrServiceUnavailable)
	}
	if decoded.Status == nil {
		return nil, fmt.Errorf("%s: response without status: %w", op, common.ErrServiceUnavailable)
	}

	result := &Result{
		StatusID:          decoded.Status.ID,
		StatusDescription: decoded.Status.Description,
		Token:             decoded.Token,
	}
	if decoded.Time != nil {
		result.Time = *decoded.Time
	}
	if result.Stdout, err = decode(decoded.Stdout); err != nil {
		return nil, fmt.Errorf("%s: stdout: %v: %w", op, err, common.ErrServiceUnavailable)
	}
	if result.Stderr, err = decode(decoded.Stderr); err != nil {
		return nil, fmt.Errorf("%s: stderr: %v: %w", op, err, common.ErrServiceUnavailable)
	}
	if result.CompileOutput, err = decode(decoded.CompileOutput); err != nil {
		return nil, fmt.Errorf("%s: compile_output: %v: %w", op, err, common.ErrServiceUnavailable)
	}
	return result, nil
}

func encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// decode accepts the line-wrapped base64 Judge0 emits for long outputs.
func decode(s *string) (string, error) {
	if s == nil || *s == "" {
		return "", nil
	}
	cleaned := strings.NewReplacer("\n", "", "\r", "").Replace(*s)
	b, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
