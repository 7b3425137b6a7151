// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package apierr

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifyTable(t *testing.T) {
	tests := []struct {
		name      string
		err       *APIError
		wantMsg   string
		wantRetry bool
	}{
		{
			name:      "network",
			err:       New(TypeNetwork, "dial tcp: connection refused"),
			wantMsg:   "You're offline. Please check your connection.",
			wantRetry: true,
		},
		{
			name:      "timeout",
			err:       New(TypeTimeout, "context deadline exceeded"),
			wantMsg:   "Request timed out. Please try again.",
			wantRetry: true,
		},
		{
			name:      "bad request with server detail",
			err:       Server(400, "content must not be blank"),
			wantMsg:   "content must not be blank",
			wantRetry: false,
		},
		{
			name:      "bad request without detail",
			err:       Server(400, ""),
			wantMsg:   "Invalid request. Please check your input.",
			wantRetry: false,
		},
		{
			name:      "unauthorized",
			err:       Server(401, "token expired"),
			wantMsg:   "Your session has expired. Please log in again.",
			wantRetry: false,
		},
		{
			name:      "forbidden",
			err:       Server(403, ""),
			wantMsg:   "You do not have permission to access this resource.",
			wantRetry: false,
		},
		{
			name:      "not found",
			err:       Server(404, ""),
			wantMsg:   "Conversation not found.",
			wantRetry: false,
		},
		{
			name:      "internal server error",
			err:       Server(500, "boom"),
			wantMsg:   "Unable to reach AI assistant. Please try again.",
			wantRetry: true,
		},
		{
			name:      "service unavailable",
			err:       Server(503, ""),
			wantMsg:   "Service temporarily unavailable. Please try again later.",
			wantRetry: true,
		},
		{
			name:      "unmapped status with detail",
			err:       Server(418, "teapot"),
			wantMsg:   "teapot",
			wantRetry: false,
		},
		{
			name:      "unmapped status without detail",
			err:       Server(502, ""),
			wantMsg:   "An unexpected error occurred. Please try again.",
			wantRetry: false,
		},
		{
			name:      "unknown type with message",
			err:       New(TypeUnknown, "json: cannot unmarshal"),
			wantMsg:   "json: cannot unmarshal",
			wantRetry: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got.UserMessage != tt.wantMsg {
				t.Errorf("UserMessage = %q, want %q", got.UserMessage, tt.wantMsg)
			}
			if got.Retryable != tt.wantRetry {
				t.Errorf("Retryable = %v, want %v", got.Retryable, tt.wantRetry)
			}
		})
	}
}

func TestClassifyPure(t *testing.T) {
	err := Server(503, "maintenance window")
	first := Classify(err)
	second := Classify(err)
	if first != second {
		t.Errorf("Classify not idempotent: %+v vs %+v", first, second)
	}
}

func TestClassifyNil(t *testing.T) {
	got := Classify(nil)
	if got.Retryable {
		t.Error("nil error should not be retryable")
	}
	if got.UserMessage == "" {
		t.Error("nil error should still produce a user message")
	}
}

func TestFrom(t *testing.T) {
	orig := Server(404, "gone")
	wrapped := fmt.Errorf("loading conversation: %w", orig)

	got := From(wrapped)
	if got != orig {
		t.Errorf("From(wrapped) = %v, want original APIError", got)
	}

	plain := From(errors.New("something else"))
	if plain.Type != TypeUnknown {
		t.Errorf("From(plain).Type = %q, want %q", plain.Type, TypeUnknown)
	}
	if plain.Message != "something else" {
		t.Errorf("From(plain).Message = %q", plain.Message)
	}

	if From(nil) != nil {
		t.Error("From(nil) should be nil")
	}
}

func TestErrorsIsByType(t *testing.T) {
	err := Server(401, "expired")
	if !errors.Is(err, &APIError{Type: TypeServer}) {
		t.Error("errors.Is should match on type alone")
	}
	if !errors.Is(err, &APIError{Type: TypeServer, StatusCode: 401}) {
		t.Error("errors.Is should match on type and status")
	}
	if errors.Is(err, &APIError{Type: TypeServer, StatusCode: 500}) {
		t.Error("errors.Is should not match a different status")
	}
	if errors.Is(err, &APIError{Type: TypeNetwork}) {
		t.Error("errors.Is should not match a different type")
	}
}
