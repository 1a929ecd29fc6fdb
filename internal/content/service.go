package content

import (
	"context"
	"errors"
	"io"
)

// ErrUnauthorized is returned by a content service when the session cookie is
// missing or has expired.
var ErrUnauthorized = errors.New("content service: unauthorized")

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult mirrors the service login response. A rejected login is not a
// transport error.
type LoginResult struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// File is one operator-selected photo. Open is only called for files that
// make it into the upload payload.
type File struct {
	Name string
	Open func(ctx context.Context) (io.ReadCloser, error)
}
