package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// MapHTTPStatus maps a non-2xx API response status to an AppError.
// It handles the statuses the console reacts to:
// - 401 → Unauthorized
// - 403 → Forbidden (expired session; the caller reloads the whole session)
// - 404 → NotFound
// - 5xx → Unavailable
//
// Any other status maps to Internal. A 2xx status returns nil.
func MapHTTPStatus(status int, target string) error {
	if status >= 200 && status < 300 {
		return nil
	}

	var code ErrorCode
	switch {
	case status == http.StatusUnauthorized:
		code = ErrCodeUnauthorized
	case status == http.StatusForbidden:
		code = ErrCodeForbidden
	case status == http.StatusNotFound:
		code = ErrCodeNotFound
	case status >= http.StatusInternalServerError:
		code = ErrCodeUnavailable
	default:
		code = ErrCodeInternal
	}

	return &AppError{
		Code:    code,
		Message: fmt.Sprintf("GET %s: %d %s", target, status, http.StatusText(status)),
		Status:  status,
	}
}

// MapTransportError maps errors returned before any response was received.
// Context timeouts and cancellations get their own codes; everything else
// is reported as Unavailable since the API could not be reached.
func MapTransportError(err error, target string) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{
			Code:    ErrCodeTimeout,
			Message: "request to " + target + " timed out",
			Cause:   err,
		}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{
			Code:    ErrCodeCanceled,
			Message: "request to " + target + " was canceled",
			Cause:   err,
		}
	}

	return &AppError{
		Code:    ErrCodeUnavailable,
		Message: "request to " + target + " failed",
		Cause:   err,
	}
}
