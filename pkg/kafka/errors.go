package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	ErrProducerClosed     = errors.New("kafka producer is closed")
	ErrConsumerClosed     = errors.New("kafka consumer is closed")
	ErrInvalidMessage     = errors.New("invalid message")
	ErrEmptyKey           = errors.New("message key cannot be empty")
	ErrEmptyValue         = errors.New("message value cannot be empty")
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

// ErrorType classifies a handler failure for the retry/DLQ decision.
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeTransient: network hiccups, timeouts. Retried.
	ErrorTypeTransient
	// ErrorTypePermanent: undecodable payload, schema mismatch.
	// Goes straight to the DLQ.
	ErrorTypePermanent
	// ErrorTypeBusiness: the handler understood the message and
	// rejected it. Not retried, not DLQ'd.
	ErrorTypeBusiness
)

// HandlerError lets message handlers tag failures with a type.
type HandlerError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *HandlerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

func Permanent(message string, err error) *HandlerError {
	return &HandlerError{Type: ErrorTypePermanent, Message: message, Err: err}
}

func Transient(message string, err error) *HandlerError {
	return &HandlerError{Type: ErrorTypeTransient, Message: message, Err: err}
}

func Business(message string, err error) *HandlerError {
	return &HandlerError{Type: ErrorTypeBusiness, Message: message, Err: err}
}

// ClassifyError maps an arbitrary handler error onto an ErrorType.
// Untyped errors default to transient so nothing is dropped silently.
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ErrorTypeUnknown
	}

	var handlerErr *HandlerError
	if errors.As(err, &handlerErr) {
		return handlerErr.Type
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return ErrorTypeTransient
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTypeTransient
	}

	return ErrorTypeTransient
}

// ShouldRetry reports whether a failure with the given type is worth
// another attempt.
func ShouldRetry(err error) bool {
	return ClassifyError(err) == ErrorTypeTransient
}
