// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package apierr defines the closed error taxonomy for TaskPilot backend
// calls and the classifier that turns a taxonomy error into user-facing
// text plus a retry hint.
//
// Every transport failure is converted into an *APIError at the gateway
// boundary; nothing downstream inspects raw transport errors. The retry
// affordance in the UI is gated entirely on Classification.Retryable.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// =============================================================================
// ERROR TYPE TAXONOMY
// =============================================================================

// Type identifies the failure class of a backend call.
type Type string

const (
	// TypeNetwork means the request produced no response at all.
	TypeNetwork Type = "network"

	// TypeTimeout means the request exceeded its deadline.
	TypeTimeout Type = "timeout"

	// TypeServer means the backend answered with a non-2xx status.
	TypeServer Type = "server"

	// TypeUnknown covers everything else (marshal failures, bad URLs).
	TypeUnknown Type = "unknown"
)

// APIError is the only error shape the gateway returns to callers.
type APIError struct {
	Type Type

	// StatusCode is set for TypeServer only.
	StatusCode int

	// Message is the server-provided detail when available, otherwise a
	// short transport description. Not user-facing; see Classify.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Type == TypeServer {
		return fmt.Sprintf("api error [%s] (HTTP %d): %s", e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error [%s]: %s", e.Type, e.Message)
}

// Is supports errors.Is comparison on the Type field.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.Type == t.Type && (t.StatusCode == 0 || e.StatusCode == t.StatusCode)
}

// New constructs an APIError of the given type.
func New(t Type, message string) *APIError {
	return &APIError{Type: t, Message: message}
}

// Server constructs a server APIError carrying an HTTP status.
func Server(statusCode int, message string) *APIError {
	return &APIError{Type: TypeServer, StatusCode: statusCode, Message: message}
}

// From extracts an *APIError from err, wrapping unfamiliar errors as
// TypeUnknown so callers always hold a taxonomy error.
func From(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &APIError{Type: TypeUnknown, Message: err.Error()}
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

// Classification is the user-facing rendering of an APIError.
type Classification struct {
	// UserMessage is shown in the error banner.
	UserMessage string

	// Retryable gates the retry affordance in the UI.
	Retryable bool
}

// User-facing messages. The exact wording is relied on by the presentation
// layer and by backend support docs; change with care.
const (
	msgOffline      = "You're offline. Please check your connection."
	msgTimeout      = "Request timed out. Please try again."
	msgBadRequest   = "Invalid request. Please check your input."
	msgSessionGone  = "Your session has expired. Please log in again."
	msgForbidden    = "You do not have permission to access this resource."
	msgNotFound     = "Conversation not found."
	msgAssistant    = "Unable to reach AI assistant. Please try again."
	msgUnavailable  = "Service temporarily unavailable. Please try again later."
	msgUnexpected   = "An unexpected error occurred. Please try again."
)

// Classify maps a taxonomy error to user-facing text and retry eligibility.
// Rules are checked in order; the first match wins. Pure function.
func Classify(err *APIError) Classification {
	if err == nil {
		return Classification{UserMessage: msgUnexpected, Retryable: false}
	}

	switch err.Type {
	case TypeNetwork:
		return Classification{UserMessage: msgOffline, Retryable: true}
	case TypeTimeout:
		return Classification{UserMessage: msgTimeout, Retryable: true}
	}

	switch err.StatusCode {
	case http.StatusBadRequest:
		msg := err.Message
		if msg == "" {
			msg = msgBadRequest
		}
		return Classification{UserMessage: msg, Retryable: false}
	case http.StatusUnauthorized:
		return Classification{UserMessage: msgSessionGone, Retryable: false}
	case http.StatusForbidden:
		return Classification{UserMessage: msgForbidden, Retryable: false}
	case http.StatusNotFound:
		return Classification{UserMessage: msgNotFound, Retryable: false}
	case http.StatusInternalServerError:
		return Classification{UserMessage: msgAssistant, Retryable: true}
	case http.StatusServiceUnavailable:
		return Classification{UserMessage: msgUnavailable, Retryable: true}
	}

	msg := err.Message
	if msg == "" {
		msg = msgUnexpected
	}
	return Classification{UserMessage: msg, Retryable: false}
}
