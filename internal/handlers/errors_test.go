package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"tinysteps/internal/service"
	"tinysteps/internal/validation"
)

func TestRespondWithErrorWritesStatusAndBody(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondWithError(recorder, 418, "Teapot", "", nil)

	if recorder.Code != 418 {
		t.Fatalf("expected status 418, got %d", recorder.Code)
	}

	body := strings.TrimSpace(recorder.Body.String())
	if body != `{"error":"Teapot"}` {
		t.Fatalf("expected JSON error body, got %q", body)
	}
	if ct := recorder.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}
}

func TestRespondWithErrorLogsMessage(t *testing.T) {
	var buf bytes.Buffer
	original := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(original)

	recorder := httptest.NewRecorder()
	err := errors.New("boom")

	respondWithError(recorder, 500, "Internal server error", "", err)

	logOutput := buf.String()
	if !strings.Contains(logOutput, "Internal server error") {
		t.Fatalf("expected log to include user message, got %q", logOutput)
	}
	if !strings.Contains(logOutput, "boom") {
		t.Fatalf("expected log to include error, got %q", logOutput)
	}
}

func TestRespondWithServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			name:   "validation",
			err:    validation.ValidationError{Field: "email", Message: "Provide email or phone."},
			status: 400,
			body:   `{"error":"Provide email or phone."}`,
		},
		{
			name:   "wrapped not found",
			err:    fmt.Errorf("complete: %w", service.ErrSessionNotFound),
			status: 404,
			body:   `{"error":"Session not found."}`,
		},
		{
			name:   "bare not found kind",
			err:    service.ErrNotFound,
			status: 404,
			body:   `{"error":"Not found."}`,
		},
		{
			name:   "forbidden",
			err:    service.ErrConsentRequired,
			status: 403,
			body:   `{"error":"Parent consent is required before creating a child profile."}`,
		},
		{
			name:   "unexpected",
			err:    errors.New("disk on fire"),
			status: 500,
			body:   `{"error":"Internal server error."}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respondWithServiceError(recorder, tt.err)

			if recorder.Code != tt.status {
				t.Errorf("status = %d, want %d", recorder.Code, tt.status)
			}
			if body := strings.TrimSpace(recorder.Body.String()); body != tt.body {
				t.Errorf("body = %s, want %s", body, tt.body)
			}
		})
	}
}

func TestIntValue(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want *int
	}{
		{"absent", nil, nil},
		{"whole number", float64(48), intPtr(48)},
		{"numeric string", "48", intPtr(48)},
		{"fraction", 40.5, intPtr(0)},
		{"word", "four", intPtr(0)},
		{"bool", true, intPtr(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := intValue(tt.in)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("intValue(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("intValue(%v) = %d, want %d", tt.in, *got, *tt.want)
			}
		})
	}
}

func TestStringSlice(t *testing.T) {
	got := stringSlice([]interface{}{"act_1", 2.0, nil, "act_2", true})
	if len(got) != 2 || got[0] != "act_1" || got[1] != "act_2" {
		t.Errorf("stringSlice kept %v", got)
	}
	if got := stringSlice("act_1"); len(got) != 0 {
		t.Errorf("non-array should yield no ids, got %v", got)
	}
}

func intPtr(n int) *int { return &n }
