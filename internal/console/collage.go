package console

import (
	"context"
	"errors"

	"github.com/debemdeboas/homeadmin/internal/content"
)

// CollageUploader sends the operator's photo selection, truncated to the
// collage cap. Files past the cap are dropped without an error.
type CollageUploader struct {
	loop     *eventLoop
	svc      Service
	gate     *SessionGate
	inflight *inFlight
	refresh  func(ctx context.Context)
	max      int

	selection []content.File
}

// Selection returns the names of the files currently being uploaded.
func (u *CollageUploader) Selection() []string {
	var names []string
	u.loop.run(func() { names = u.selectionLocked() })
	return names
}

func (u *CollageUploader) selectionLocked() []string {
	names := make([]string, 0, len(u.selection))
	for _, f := range u.selection {
		names = append(names, f.Name)
	}
	return names
}

// Upload sends at most max files. The selection is cleared when the upload
// completes, whether it succeeded or not.
func (u *CollageUploader) Upload(ctx context.Context, files []content.File) error {
	if len(files) == 0 {
		return nil
	}
	sent := content.CapPhotos(files, u.max)

	var err error
	u.loop.run(func() {
		switch {
		case !u.gate.authenticated:
			err = ErrNotAuthenticated
		case !u.inflight.begin(GroupCollage, true):
			err = ErrInFlight
		default:
			u.selection = files
		}
	})
	if err != nil {
		return err
	}

	if dropped := len(files) - len(sent); dropped > 0 {
		consoleLogger.Debug().Int("selected", len(files)).Int("dropped", dropped).Msg("Collage selection truncated")
	}

	err = u.svc.UploadCollage(ctx, sent)
	u.loop.run(func() {
		u.inflight.end(GroupCollage)
		u.selection = nil
	})

	if err != nil {
		if errors.Is(err, content.ErrUnauthorized) {
			u.gate.Teardown()
		}
		consoleLogger.Error().Err(err).Int("count", len(sent)).Msg("Collage upload failed")
		return &UploadError{Count: len(sent), Err: err}
	}

	consoleLogger.Info().Int("count", len(sent)).Msg("Collage uploaded")
	u.refresh(ctx)
	return nil
}
