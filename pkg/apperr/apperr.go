// Package apperr classifies the failures returned by the workflow core.
// Callers map a Kind to a user-visible response; the core never retries.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation           Kind = "validation"
	KindAlreadyAssigned      Kind = "already_assigned"
	KindAlreadyCompleted     Kind = "already_completed"
	KindNotAssigned          Kind = "not_assigned"
	KindIncomplete           Kind = "incomplete_translation"
	KindNotInReview          Kind = "not_in_review"
	KindNoAssignedTranslator Kind = "no_assigned_translator"
	KindNotFound             Kind = "not_found"
	KindPermission           Kind = "permission"
	KindInternal             Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorKind lets callers classify without importing this package's types.
func (e *Error) ErrorKind() string { return string(e.Kind) }

// Is matches any *Error of the same kind, so errors.Is(err, apperr.ErrNotFound) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrValidation           = &Error{Kind: KindValidation}
	ErrAlreadyAssigned      = &Error{Kind: KindAlreadyAssigned}
	ErrAlreadyCompleted     = &Error{Kind: KindAlreadyCompleted}
	ErrNotAssigned          = &Error{Kind: KindNotAssigned}
	ErrIncomplete           = &Error{Kind: KindIncomplete}
	ErrNotInReview          = &Error{Kind: KindNotInReview}
	ErrNoAssignedTranslator = &Error{Kind: KindNoAssignedTranslator}
	ErrNotFound             = &Error{Kind: KindNotFound}
	ErrPermission           = &Error{Kind: KindPermission}
)

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error { return newf(KindValidation, format, args...) }

func AlreadyAssigned(storyID uint) error {
	return newf(KindAlreadyAssigned, "story %d already assigned", storyID)
}

func AlreadyCompleted(storyID, translatorID uint) error {
	return newf(KindAlreadyCompleted, "story %d already completed by translator %d", storyID, translatorID)
}

func NotAssigned(storyID, translatorID uint) error {
	return newf(KindNotAssigned, "translator %d is not assigned to story %d", translatorID, storyID)
}

func Incomplete(storyID uint, finalized, total int) error {
	return newf(KindIncomplete, "story %d: %d of %d paragraphs finalized", storyID, finalized, total)
}

func NotInReview(storyID uint, status string) error {
	return newf(KindNotInReview, "story %d must be in REVIEW, is %s", storyID, status)
}

func NoAssignedTranslator(storyID uint) error {
	return newf(KindNoAssignedTranslator, "story %d has no assigned translator", storyID)
}

func NotFound(what string, id any) error { return newf(KindNotFound, "%s %v not found", what, id) }

func Permission(format string, args ...any) error { return newf(KindPermission, format, args...) }

// Internal wraps a storage or transport failure.
func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the classification of err, KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to the status code the API answers with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindIncomplete, KindNotInReview, KindNoAssignedTranslator:
		return http.StatusBadRequest
	case KindPermission, KindNotAssigned:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindAlreadyAssigned, KindAlreadyCompleted:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
