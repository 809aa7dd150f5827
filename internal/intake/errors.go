package intake

import (
	"errors"
	"fmt"
)

// Kind classifies a structural input failure.
type Kind string

const (
	KindMissingFile       Kind = "missing_file"
	KindEmptyFile         Kind = "empty_file"
	KindFileTooLarge      Kind = "file_too_large"
	KindUnreadableImage   Kind = "unreadable_image"
	KindUnsupportedFormat Kind = "unsupported_format"
	KindInvalidMetadata   Kind = "invalid_metadata"
)

// InputError is a client-input failure detected before policy evaluation.
// It is never turned into a Decision.
type InputError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *InputError) Unwrap() error { return e.Err }

// Is matches any InputError of the same kind.
func (e *InputError) Is(target error) bool {
	t, ok := target.(*InputError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newInputError(kind Kind, msg string, err error) *InputError {
	return &InputError{Kind: kind, Message: msg, Err: err}
}

var (
	ErrMissingFile       = newInputError(KindMissingFile, "file is required", nil)
	ErrEmptyFile         = newInputError(KindEmptyFile, "uploaded file is empty", nil)
	ErrFileTooLarge      = newInputError(KindFileTooLarge, "uploaded file exceeds the size limit", nil)
	ErrUnreadableImage   = newInputError(KindUnreadableImage, "invalid or unreadable image file", nil)
	ErrUnsupportedFormat = newInputError(KindUnsupportedFormat, "unsupported image format", nil)
	ErrInvalidMetadata   = newInputError(KindInvalidMetadata, "invalid metadata", nil)
)

// IsInputError reports whether err is a structural input failure.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

// KindOf returns the kind of an InputError, or "" for anything else.
func KindOf(err error) Kind {
	var ie *InputError
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return ""
}
