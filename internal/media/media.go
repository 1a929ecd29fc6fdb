// Package media resolves operator photo references into uploadable files.
// Files are opened lazily, so references past the collage cap are never read.
package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/homeadmin/internal/content"
)

var mediaLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	mediaLogger = l
}

const s3Scheme = "s3://"

type Source interface {
	Open(ctx context.Context, refs []string) ([]content.File, error)
}

// Resolver dispatches each reference to the source for its scheme, keeping
// the operator's order.
type Resolver struct {
	FS *FSSource
	S3 *S3Source
}

func (r *Resolver) Open(ctx context.Context, refs []string) ([]content.File, error) {
	var files []content.File
	for _, ref := range refs {
		src, err := r.sourceFor(ref)
		if err != nil {
			return nil, err
		}
		opened, err := src.Open(ctx, []string{ref})
		if err != nil {
			return nil, err
		}
		files = append(files, opened...)
	}
	return files, nil
}

func (r *Resolver) sourceFor(ref string) (Source, error) {
	if strings.HasPrefix(ref, s3Scheme) {
		if r.S3 == nil {
			return nil, fmt.Errorf("media: %s: no S3 bucket configured", ref)
		}
		return r.S3, nil
	}
	if r.FS == nil {
		return nil, fmt.Errorf("media: %s: no filesystem source", ref)
	}
	return r.FS, nil
}
