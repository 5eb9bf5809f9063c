package remote

import (
	"context"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/tidwall/gjson"
)

var (
	ErrBaseURLInvalid    = errors.New("remote: base url must be absolute")
	ErrRoutesRequired    = errors.New("remote: routes are required")
	ErrUnexpectedStatus  = errors.New("remote: unexpected response status")
	ErrInvalidResponse   = errors.New("remote: response body is not valid JSON")
	ErrPayloadRequired   = errors.New("remote: payload is required")
	ErrMenuIDRequired    = errors.New("remote: menu id is required")
	ErrTooManyItemPages  = errors.New("remote: menu item pagination exceeded limit")
	ErrMissingIdentifier = errors.New("remote: created menu item has no id")
)

const (
	textCodeTransport  = "REMOTE_TRANSPORT_FAILED"
	textCodeStatus     = "REMOTE_UNEXPECTED_STATUS"
	textCodeDecode     = "REMOTE_DECODE_FAILED"
	textCodeCanceled   = "REMOTE_CONTEXT_CANCELED"
	textCodeValidation = "REMOTE_INVALID_REQUEST"
)

// StatusError describes a non-2xx response. Code and Message are read from the
// REST error body when present.
type StatusError struct {
	Operation  string
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s: status %d", e.Operation, e.StatusCode)
	if e.Code != "" {
		msg += " (" + e.Code + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

func newStatusError(operation string, status int, body []byte) *StatusError {
	se := &StatusError{Operation: operation, StatusCode: status}
	if gjson.ValidBytes(body) {
		se.Code = gjson.GetBytes(body, "code").String()
		se.Message = gjson.GetBytes(body, "message").String()
	}
	return se
}

func wrapTransportError(err error, operation string) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryExternal, operation+" cancelled").
			WithTextCode(textCodeCanceled)
	case errors.Is(err, ErrUnexpectedStatus):
		return goerrors.Wrap(err, goerrors.CategoryExternal, operation+" rejected").
			WithTextCode(textCodeStatus)
	case errors.Is(err, ErrInvalidResponse):
		return goerrors.Wrap(err, goerrors.CategoryExternal, operation+" returned an unreadable body").
			WithTextCode(textCodeDecode)
	default:
		return goerrors.Wrap(err, goerrors.CategoryExternal, operation+" failed").
			WithTextCode(textCodeTransport)
	}
}

func wrapValidationError(err error, operation string) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, operation+" invalid").
		WithTextCode(textCodeValidation)
}
