package judge0

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"contest_judge/internal/common"
)

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestClientRunEncodesRequestAndDecodesResult(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/submissions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.URL.Query().Get("base64_encoded") != "true" || r.URL.Query().Get("wait") != "true" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		if r.Header.Get("X-Api-Key") != "secret" {
			t.Errorf("missing api key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token":"tok-1","status":{"id":3,"description":"Accepted"},"time":"0.0126","stdout":"` + b64("5\n") + `","stderr":null}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", "secret", time.Second)
	expected := "5"
	res, err := client.Run(context.Background(), Request{
		SourceCode:     "print(sum(map(int, input().split())))",
		LanguageID:     71,
		Stdin:          "2 3",
		ExpectedOutput: &expected,
		CPUTimeLimit:   2.0,
		MemoryLimit:    128000,
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if got["source_code"] != b64("print(sum(map(int, input().split())))") {
		t.Fatalf("source code not base64 encoded: %v", got["source_code"])
	}
	if got["stdin"] != b64("2 3") || got["expected_output"] != b64("5") {
		t.Fatalf("stdin/expected output not encoded: %v", got)
	}
	if got["language_id"].(float64) != 71 || got["cpu_time_limit"].(float64) != 2.0 || got["memory_limit"].(float64) != 128000 {
		t.Fatalf("unexpected limits: %v", got)
	}
	if res.StatusID != 3 || res.Stdout != "5\n" || res.Stderr != "" || res.Token != "tok-1" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.TimeMs() != 13 {
		t.Fatalf("expected 13ms, got %d", res.TimeMs())
	}
}

func TestClientRunOmitsExpectedOutputAndApiKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["X-Api-Key"]; ok {
			t.Errorf("api key header must not be sent when unset")
		}
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		if _, ok := body["expected_output"]; ok {
			t.Errorf("expected_output must be omitted")
		}
		w.Write([]byte(`{"status":{"id":4}}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, "", time.Second).Run(context.Background(), Request{SourceCode: "x", LanguageID: 71})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.StatusID != 4 || res.TimeMs() != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestClientRunFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":`))
		}},
		{"missing status", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"time":"0.1"}`))
		}},
		{"bad base64", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":{"id":3},"stdout":"%%%"}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewClient(srv.URL, "", time.Second).Run(context.Background(), Request{SourceCode: "x"})
			if !errors.Is(err, common.ErrServiceUnavailable) {
				t.Fatalf("expected service unavailable, got %v", err)
			}
		})
	}
}

func TestClientRunTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := NewClient(srv.URL, "", 50*time.Millisecond).Run(context.Background(), Request{SourceCode: "x"})
	if !errors.Is(err, common.ErrServiceUnavailable) {
		t.Fatalf("expected service unavailable, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("client timeout was not applied")
	}
}

func TestClientGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/submissions/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Method != http.MethodGet || r.URL.Path != "/submissions/tok-9" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"token":"tok-9","status":{"id":6,"description":"Compilation Error"},"compile_output":"` + b64("main.c:1: error") + `"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", time.Second)
	res, err := client.Get(context.Background(), "tok-9")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if res.StatusID != 6 || res.CompileOutput != "main.c:1: error" {
		t.Fatalf("unexpected result: %+v", res)
	}

	if _, err := client.Get(context.Background(), "missing"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestResultTimeMs(t *testing.T) {
	tests := []struct {
		time string
		want int
	}{
		{"", 0},
		{"0.001", 1},
		{"1.25", 1250},
		{"abc", 0},
		{"NaN", 0},
	}
	for _, tt := range tests {
		r := &Result{Time: tt.time}
		if got := r.TimeMs(); got != tt.want {
			t.Errorf("TimeMs(%q) = %d, want %d", tt.time, got, tt.want)
		}
	}
}
