package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/debemdeboas/homeadmin/internal/config"
	"github.com/debemdeboas/homeadmin/internal/content"
)

// sniffLen is how much of each file is read to detect its content type.
const sniffLen = 3072

// UploadCollage streams files as multipart parts named images. Each part
// carries the content type detected from its leading bytes. The caller has
// already applied the collage cap.
func (c *Client) UploadCollage(ctx context.Context, files []content.File) error {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeParts(ctx, mw, files))
	}()

	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   config.APICollage,
		body:   pr,
		ctype:  mw.FormDataContentType(),
	}, nil)
	pr.CloseWithError(io.ErrClosedPipe)
	return err
}

func writeParts(ctx context.Context, mw *multipart.Writer, files []content.File) error {
	for _, f := range files {
		if err := writePart(ctx, mw, f); err != nil {
			return err
		}
	}
	return mw.Close()
}

func writePart(ctx context.Context, mw *multipart.Writer, f content.File) error {
	rc, err := f.Open(ctx)
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(rc, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return fmt.Errorf("read %s: %w", f.Name, err)
	}
	head = head[:n]
	mtype := mimetype.Detect(head)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, config.FormFieldImages, filepath.Base(f.Name)))
	h.Set(config.HCType, mtype.String())

	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, io.MultiReader(bytes.NewReader(head), rc)); err != nil {
		return fmt.Errorf("copy %s: %w", f.Name, err)
	}

	clientLogger.Debug().Str("file", f.Name).Str("mime", mtype.String()).Msg("Collage part written")
	return nil
}
