package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// CodedError exposes a stable machine-readable code (e.g. "prefs/keyword-length").
type CodedError interface {
	error
	Code() string
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrRateLimited        = errors.New("rate limited")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrUpstreamContract   = errors.New("upstream contract violation")
	ErrUpstreamTransport  = errors.New("upstream transport error")
	ErrUpstreamTimeout    = errors.New("upstream timeout")
)

// Domain error types implementing HTTPError
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
		ErrCode string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
		ErrCode string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
		ErrCode string
	}

	// ForbiddenError indicates authorization failure
	ForbiddenError struct {
		Message string
	}

	// RateLimitError indicates the caller exceeded a request budget
	RateLimitError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }
func (e *RateLimitError) Error() string    { return e.Message }

func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }
func (e *RateLimitError) StatusCode() int    { return http.StatusTooManyRequests }

func (e *NotFoundError) Code() string     { return e.ErrCode }
func (e *ValidationError) Code() string   { return e.ErrCode }
func (e *UnauthorizedError) Code() string { return e.ErrCode }
func (e *RateLimitError) Code() string    { return "rate/limited" }

func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }
func (e *ForbiddenError) Is(target error) bool    { return target == ErrForbidden }
func (e *RateLimitError) Is(target error) bool    { return target == ErrRateLimited }

// NewValidationError builds a ValidationError with a stable code.
func NewValidationError(code, message string) *ValidationError {
	return &ValidationError{Message: message, ErrCode: code}
}

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (user, keyword)
	ResourceID   string // ID of the existing/conflicting resource
	ErrCode      string
}

func (e *ConflictError) Error() string        { return e.Message }
func (e *ConflictError) StatusCode() int      { return http.StatusConflict }
func (e *ConflictError) Code() string         { return e.ErrCode }
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// StorageError wraps a failure of the relational store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string        { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error        { return e.Err }
func (e *StorageError) StatusCode() int      { return http.StatusInternalServerError }
func (e *StorageError) Code() string         { return "storage/unavailable" }
func (e *StorageError) Is(target error) bool { return target == ErrStorageUnavailable }

// NewStorageError wraps err unless it is nil or already classified.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// UpstreamError describes a failed call to an external service
// (language model, news API, embeddings, SMTP).
type UpstreamError struct {
	Kind     error  // ErrUpstreamContract, ErrUpstreamTransport or ErrUpstreamTimeout
	Upstream string // "llm", "newsdata", "cohere", "smtp"
	ErrCode  string
	Message  string
	// Status is the upstream HTTP status when one was received.
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Upstream, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() error        { return e.Err }
func (e *UpstreamError) Is(target error) bool { return target == e.Kind }

func (e *UpstreamError) Code() string {
	if e.ErrCode != "" {
		return e.ErrCode
	}
	switch e.Kind {
	case ErrUpstreamContract:
		return "upstream/contract"
	case ErrUpstreamTimeout:
		return "upstream/timeout"
	default:
		return "upstream/transport"
	}
}

func (e *UpstreamError) StatusCode() int {
	if e.Kind == ErrUpstreamTimeout {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}

// NewContractError reports an upstream response that does not match the
// expected shape. The code is "<upstream>/contract".
func NewContractError(upstream, message string) *UpstreamError {
	return &UpstreamError{
		Kind:     ErrUpstreamContract,
		Upstream: upstream,
		ErrCode:  upstream + "/contract",
		Message:  message,
	}
}

// ClassifyUpstream converts a raw client error into an UpstreamError.
// Deadline, cancellation and network timeouts are timeout-class; everything
// else is transport-class. Already classified errors pass through.
func ClassifyUpstream(upstream string, err error) error {
	if err == nil {
		return nil
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return err
	}

	kind := ErrUpstreamTransport
	msg := "request failed"
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		kind = ErrUpstreamTimeout
		msg = "request timed out"
	}

	return &UpstreamError{Kind: kind, Upstream: upstream, Message: msg, Err: err}
}
