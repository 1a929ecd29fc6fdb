package console

import (
	"context"

	"github.com/debemdeboas/homeadmin/internal/content"
)

// Service is the content service the console reads from and publishes to.
// Implementations return content.ErrUnauthorized for rejected sessions.
type Service interface {
	Status(ctx context.Context) (bool, error)
	Login(ctx context.Context, creds content.Credentials) (content.LoginResult, error)
	Home(ctx context.Context, lang content.Language) (*content.Snapshot, error)
	SaveCopy(ctx context.Context, copy content.Copy) error
	AddNotice(ctx context.Context, title, body string) error
	SetTheme(ctx context.Context, theme content.Theme) error
	UploadCollage(ctx context.Context, files []content.File) error
}

// ThemeController is the process-wide presentation sink for the seasonal
// theme. Apply is called on the event loop and must not block.
type ThemeController interface {
	Apply(theme content.Theme)
	Current() content.Theme
}

// Preferences is a best-effort local cache. Lookups report false when a value
// is absent or unreadable; writes never fail the caller.
type Preferences interface {
	Authenticated() (bool, bool)
	SetAuthenticated(v bool)
	Theme() (content.Theme, bool)
	SetTheme(theme content.Theme)
	Language() (content.Language, bool)
	SetLanguage(lang content.Language)
	Snapshot(lang content.Language) (*content.Snapshot, bool)
	SetSnapshot(snap *content.Snapshot)
}
