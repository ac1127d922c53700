package shared

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Catalog errors
	ErrNotFound         = fmt.Errorf("not found")
	ErrUserNotFound     = &NotFoundError{Entity: "user"}
	ErrArtistNotFound   = &NotFoundError{Entity: "artist"}
	ErrAlbumNotFound    = &NotFoundError{Entity: "album"}
	ErrSongNotFound     = &NotFoundError{Entity: "song"}
	ErrPlaylistNotFound = &NotFoundError{Entity: "playlist"}

	// Service errors
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrRateLimited        = fmt.Errorf("rate limit exceeded")
	ErrAPIRequest         = fmt.Errorf("API request failed")

	// Input validation errors
	ErrInvalidInput     = fmt.Errorf("invalid input")
	ErrMissingArgument  = fmt.Errorf("missing required argument")
	ErrInvalidArgument  = fmt.Errorf("invalid argument")
	ErrInvalidFlag      = fmt.Errorf("invalid flag value")
	ErrUnknownOperation = fmt.Errorf("unknown operation")
)

// NotFoundError reports a referenced catalog entity that does not exist.
//
// Every NotFoundError matches [ErrNotFound] under [errors.Is].
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " does not exist"
}

// Is reports whether target is [ErrNotFound] or the same entity kind.
func (e *NotFoundError) Is(target error) bool {
	if target == ErrNotFound {
		return true
	}
	var other *NotFoundError
	if errors.As(target, &other) {
		return other.Entity == e.Entity
	}
	return false
}
