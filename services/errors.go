package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies editor failures so callers can decide how to surface them.
type ErrorKind string

const (
	// KindValidation errors are caught before any network call.
	KindValidation ErrorKind = "validation"

	// KindUpload errors abort a save while staged images are being uploaded.
	KindUpload ErrorKind = "upload"

	// KindSubmission errors come from the create/update call.
	KindSubmission ErrorKind = "submission"

	// KindCleanup errors are best-effort deletions; they are logged and never returned to users.
	KindCleanup ErrorKind = "cleanup"

	KindConflict ErrorKind = "conflict"
	KindNotFound ErrorKind = "not_found"
)

// EditorError is the typed error returned by the editor subsystem.
type EditorError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *EditorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *EditorError) Unwrap() error {
	return e.Err
}

var (
	ErrNoStockConfigured   = &EditorError{Kind: KindValidation, Message: "no stock configured"}
	ErrPricingModeMismatch = &EditorError{Kind: KindValidation, Message: "operation not allowed in current pricing mode"}
	ErrNothingToSave       = &EditorError{Kind: KindValidation, Message: "no changes to save"}
	ErrUnknownSize         = &EditorError{Kind: KindValidation, Message: "size is not part of the size system"}
	ErrImageIndex          = &EditorError{Kind: KindValidation, Message: "image index out of range"}
	ErrNotStaged           = &EditorError{Kind: KindValidation, Message: "image has no local preview"}
	ErrSizeSystemFixed     = &EditorError{Kind: KindValidation, Message: "size system is fixed by the product"}
	ErrNotProductDraft     = &EditorError{Kind: KindValidation, Message: "product fields can only be edited in the new-product flow"}
	ErrSessionBusy         = &EditorError{Kind: KindConflict, Message: "save in progress"}
	ErrSessionClosed       = &EditorError{Kind: KindConflict, Message: "editor session is closed"}
	ErrSessionNotFound     = &EditorError{Kind: KindNotFound, Message: "editor session not found"}
)

func validationError(format string, args ...interface{}) *EditorError {
	return &EditorError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of an editor error, or "" for foreign errors.
func KindOf(err error) ErrorKind {
	var ee *EditorError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return ""
}
