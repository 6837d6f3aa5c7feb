package analyzer

import (
	"errors"
	"fmt"
)

// ErrorKind classifies analysis failures so callers can branch without
// matching message strings.
type ErrorKind int

const (
	KindDomainInvalid ErrorKind = iota // URL is not a Project Gutenberg page
	KindFetchFailed                    // content could not be retrieved
	KindModelFailed                    // model invocation failed
	KindNoURL                          // no URL to operate on
)

func (k ErrorKind) String() string {
	switch k {
	case KindDomainInvalid:
		return "domain_invalid"
	case KindFetchFailed:
		return "fetch_failed"
	case KindModelFailed:
		return "model_failed"
	case KindNoURL:
		return "no_url"
	default:
		return "unknown"
	}
}

// Error carries an ErrorKind alongside the underlying cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func wrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the ErrorKind from an error chain, defaulting to
// KindModelFailed for unclassified failures.
func KindOf(err error) ErrorKind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindModelFailed
}

// MessageOf returns the user-facing message for an analysis error.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}
