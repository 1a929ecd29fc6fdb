package devserver_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/debemdeboas/homeadmin/internal/client"
	"github.com/debemdeboas/homeadmin/internal/config"
	"github.com/debemdeboas/homeadmin/internal/console"
	"github.com/debemdeboas/homeadmin/internal/content"
	"github.com/debemdeboas/homeadmin/internal/devserver"
)

var png = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func strPtr(s string) *string { return &s }

func setup(t *testing.T) (*devserver.Server, *console.Console) {
	t.Helper()
	srv := devserver.New(config.DevServerConfig{Username: "admin", Password: "secret", SessionTTL: time.Hour})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	cl, err := client.New(ts.URL)
	if err != nil {
		t.Fatal(err)
	}
	c := console.New(cl, console.WithLanguage("en"))
	c.Start(context.Background())
	t.Cleanup(c.Close)
	return srv, c
}

func loginConsole(t *testing.T, c *console.Console) {
	t.Helper()
	if err := c.Login(context.Background(), content.Credentials{Username: "admin", Password: "secret"}); err != nil {
		t.Fatalf("Expected login to succeed: %v", err)
	}
	if !c.IsAuthenticated() {
		t.Fatal("Expected console to be authenticated")
	}
}

func pngFiles(n int) []content.File {
	files := make([]content.File, n)
	for i := range files {
		files[i] = content.File{
			Name: fmt.Sprintf("photo-%d.png", i+1),
			Open: func(ctx context.Context) (io.ReadCloser, error) {
				return io.NopCloser(bytes.NewReader(png)), nil
			},
		}
	}
	return files
}

func TestEndToEndEditing(t *testing.T) {
	srv, c := setup(t)
	ctx := context.Background()

	if c.View().Authenticated {
		t.Fatal("Expected the login view before logging in")
	}
	if err := c.Login(ctx, content.Credentials{Username: "admin", Password: "wrong"}); err == nil {
		t.Fatal("Expected bad credentials to fail")
	}
	loginConsole(t, c)

	if err := c.Edit(console.SubMission, console.MissionPatch{Heading: strPtr("Welcome home")}); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if err := c.SaveCopy(ctx); err != nil {
		t.Fatalf("SaveCopy failed: %v", err)
	}
	if got := srv.Store().Home("en").Mission; got == nil || got.Heading != "Welcome home" {
		t.Errorf("Expected saved heading on the service, got %+v", got)
	}
	if c.Dirty(console.SubMission) {
		t.Error("Expected mission to be clean after the round trip")
	}

	c.Edit(console.SubNotices, console.NoticePatch{Title: strPtr("Bake sale"), Body: strPtr("After the 11 o'clock Mass")})
	n, err := c.AddNotice(ctx)
	if err != nil {
		t.Fatalf("AddNotice failed: %v", err)
	}
	if n == nil || n.ID == "" || n.Title != "Bake sale" {
		t.Errorf("Expected the published notice, got %+v", n)
	}

	if err := c.SetTheme(ctx, content.ThemeAdvent); err != nil {
		t.Fatalf("SetTheme failed: %v", err)
	}
	if got := c.View().Theme; got != content.ThemeAdvent {
		t.Errorf("Expected advent after refresh, got %q", got)
	}

	if err := c.UploadPhotos(ctx, pngFiles(9)); err != nil {
		t.Fatalf("UploadPhotos failed: %v", err)
	}
	if got := srv.Store().PhotoCount(); got != 6 {
		t.Errorf("Expected 6 photos sent, got %d", got)
	}
	if err := c.UploadPhotos(ctx, pngFiles(2)); err != nil {
		t.Fatalf("Second upload failed: %v", err)
	}
	view := c.View()
	if view.PhotoCount != 8 || len(view.Photos) != 6 {
		t.Errorf("Expected 8 photos held and 6 displayed, got %d and %d", view.PhotoCount, len(view.Photos))
	}
}

func TestEndToEndLanguageScopedCopy(t *testing.T) {
	srv, c := setup(t)
	ctx := context.Background()
	loginConsole(t, c)

	if _, err := c.SetLanguage(ctx, "es"); err != nil {
		t.Fatalf("SetLanguage failed: %v", err)
	}
	c.Edit(console.SubMission, console.MissionPatch{Heading: strPtr("Bienvenidos")})
	if err := c.SaveCopy(ctx); err != nil {
		t.Fatalf("SaveCopy failed: %v", err)
	}

	if got := srv.Store().Home("es").Mission; got == nil || got.Heading != "Bienvenidos" {
		t.Errorf("Expected Spanish copy, got %+v", got)
	}
	if got := srv.Store().Home("en").Mission; got != nil {
		t.Errorf("Expected English copy untouched, got %+v", got)
	}
}

func TestEndToEndSessionExpiry(t *testing.T) {
	srv, c := setup(t)
	ctx := context.Background()
	loginConsole(t, c)

	srv.Sessions().Expire()

	err := c.SetTheme(ctx, content.ThemeEaster)
	if !errors.Is(err, content.ErrUnauthorized) {
		t.Fatalf("Expected an unauthorized error, got %v", err)
	}
	view := c.View()
	if view.Authenticated {
		t.Error("Expected the console to fall back to the login view")
	}
	if view.Message != config.ErrSessionExpired {
		t.Errorf("Expected session expired message, got %q", view.Message)
	}
	if srv.Store().Theme() != content.ThemeNormal {
		t.Error("Expected the theme to be unchanged on the service")
	}
}
