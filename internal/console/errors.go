package console

import (
	"errors"
	"fmt"

	"github.com/debemdeboas/homeadmin/internal/content"
)

var (
	// ErrInFlight is returned when a save is requested for a sub-resource
	// whose previous save has not completed. It is a caller error; the
	// request is not queued.
	ErrInFlight         = errors.New("publish already in flight")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNoDraft          = errors.New("no draft for sub-resource")
	ErrPatchMismatch    = errors.New("patch does not apply to sub-resource")
	ErrReadOnly         = errors.New("sub-resource is not editable")

	// ErrDiscarded reports that a fetch result arrived after it stopped being
	// relevant (console closed, language switched, or superseded).
	ErrDiscarded = errors.New("result discarded")
)

// AuthError carries a message suitable for showing next to the login form.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %v", e.Message, e.Err)
	}
	return "auth: " + e.Message
}

func (e *AuthError) Unwrap() error { return e.Err }

type FetchError struct {
	Language content.Language
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Language, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

type PublishError struct {
	Group Group
	Err   error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish %s: %v", e.Group, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

type UploadError struct {
	Count int
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %d photos: %v", e.Count, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }
