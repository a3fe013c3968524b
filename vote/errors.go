// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package vote

import (
	"errors"
	"net/http"
)

// Rejection kinds surfaced to clients. Each sentinel's text is the
// user-visible message; anything outside this set is an internal error
// and stays opaque.
var (
	ErrInvalidID       = errors.New("invalid id format")
	ErrPollNotFound    = errors.New("poll not found")
	ErrPollUnpublished = errors.New("poll is not published yet")
	ErrInvalidOption   = errors.New("invalid option for this poll")
	ErrDuplicateVote   = errors.New("user has already voted on this poll")
)

// HTTPStatus maps a submission error to its response status code.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrPollNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrPollUnpublished),
		errors.Is(err, ErrInvalidOption),
		errors.Is(err, ErrDuplicateVote):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message a client may see for a submission
// error. Internal failures are collapsed to a generic summary; the full
// error is for server-side logs only.
func PublicMessage(err error) string {
	for _, kind := range []error{
		ErrInvalidID,
		ErrPollNotFound,
		ErrPollUnpublished,
		ErrInvalidOption,
		ErrDuplicateVote,
	} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return "internal server error"
}
