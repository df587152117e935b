package application

import (
	"errors"
	"fmt"
)

// User-facing messages. Every error of a kind shows the same text regardless
// of its cause.
const (
	MsgRepositoryNotProvided = "Repository not provided"
	MsgLookupFailed          = "Error searching for this repository"
	MsgPersistFailed         = "Error saving the repository list"
)

var (
	// ErrRepositoryNotProvided is returned when a blank identifier is submitted.
	ErrRepositoryNotProvided = errors.New("repository not provided")

	// ErrLookupFailed matches every *LookupError.
	ErrLookupFailed = errors.New("repository lookup failed")

	// ErrPersistFailed is returned when the list could not be written to storage.
	// The list is left at its previous value.
	ErrPersistFailed = errors.New("persist repository list")
)

// LookupError carries the cause of a failed lookup for logging. It matches
// ErrLookupFailed with errors.Is, and the cause is reachable with errors.As
// and errors.Is through Unwrap.
type LookupError struct {
	Identifier string
	Err        error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %q: %v", e.Identifier, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrLookupFailed.
func (e *LookupError) Is(target error) bool {
	return target == ErrLookupFailed
}

// UserMessage maps an error returned by ExplorerService to the fixed text shown
// to the user. Unknown errors get the lookup message.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRepositoryNotProvided):
		return MsgRepositoryNotProvided
	case errors.Is(err, ErrPersistFailed):
		return MsgPersistFailed
	default:
		return MsgLookupFailed
	}
}
