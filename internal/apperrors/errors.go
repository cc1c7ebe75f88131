// Package apperrors defines the error taxonomy shared by the store, the
// linking layer and the HTTP handlers.
//
// Lower layers never recover from these errors; they wrap and return them.
// Only the handler layer maps a Kind to an HTTP status.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies an Error.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindAuthentication
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindNotFound:
		return "NotFoundError"
	case KindAuthentication:
		return "AuthenticationError"
	case KindForbidden:
		return "ForbiddenError"
	default:
		return "UnknownError"
	}
}

// FieldError is a single violated field rule.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Error is the application error type.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err == nil {
		if len(e.Fields) > 0 {
			msgs := make([]string, len(e.Fields))
			for i, f := range e.Fields {
				msgs[i] = f.Message
			}
			msg = strings.Join(msgs, "; ")
		} else {
			msg = strings.ToLower(e.Kind.String())
		}
	}

	parts := make([]string, 0, 3)
	for _, p := range []string{e.Op, msg} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error { return e.Err }

// Validation builds a ValidationError listing every violated rule.
func Validation(fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Fields: fields}
}

// NotFound reports a missing document of the given entity kind.
func NotFound(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %q not found", entity, id)}
}

func Authentication(msg string) *Error {
	return &Error{Kind: KindAuthentication, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// Wrap attaches an operation name to err. Application errors keep their kind,
// anything else becomes KindUnknown.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return &Error{Kind: appErr.Kind, Op: op, Fields: appErr.Fields, Err: err}
	}
	return &Error{Kind: KindUnknown, Op: op, Err: err}
}

// KindOf returns the kind of the outermost application error in err's chain.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// Is reports whether err is an application error of kind k.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// FieldsOf returns the violated field rules carried by a ValidationError.
func FieldsOf(err error) []FieldError {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}

// HTTPStatus maps err to a response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
