package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/debemdeboas/homeadmin/internal/console"
	"github.com/debemdeboas/homeadmin/internal/content"
	"github.com/debemdeboas/homeadmin/internal/devserver"
	"github.com/debemdeboas/homeadmin/internal/render"
)

type StatusCmd struct{}

func (s *StatusCmd) Run(a *app) error {
	ctx := context.Background()
	c, cleanup, err := a.openConsole(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	printStatus(a, c)
	return nil
}

func printStatus(a *app, c *console.Console) {
	v := c.View()
	a.printf("service:       %s\n", a.cfg.Service.BaseURL)
	a.printf("authenticated: %v\n", v.Authenticated)
	a.printf("language:      %s\n", v.Language)
	a.printf("theme:         %s\n", v.Theme)
	if snap := c.Snapshot(); snap != nil {
		a.printf("notices:       %d\n", len(snap.Notices))
		a.printf("photos:        %d (showing %d)\n", v.PhotoCount, len(v.Photos))
	} else {
		a.printf("content:       not loaded\n")
	}
}

type ShowCmd struct {
	JSON  bool   `name:"json" help:"Print the raw snapshot as highlighted JSON"`
	Style string `help:"Syntax style for --json (defaults to the seasonal palette)"`
}

func (s *ShowCmd) Run(a *app) error {
	ctx := context.Background()
	c, cleanup, err := a.openConsole(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if s.JSON {
		return showJSON(a, c, s.Style)
	}

	if err := a.ensureSession(ctx, c); err != nil && !errors.Is(err, errNoCredentials) {
		a.log.Warn().Err(err).Msg("Login failed, showing the login view")
	}
	return render.View(a.out, c.View(), a.term.Palette())
}

func showJSON(a *app, c *console.Console, style string) error {
	snap := c.Snapshot()
	if snap == nil {
		return errors.New("no content loaded")
	}
	if style == "" {
		style = a.term.Palette().SyntaxStyle
	}
	out, err := render.SnapshotJSON(snap, style)
	if err != nil {
		return err
	}
	a.printf("%s\n", out)
	return nil
}

type PreviewCmd struct {
	HTML bool `name:"html" help:"Render HTML instead of markdown"`
}

func (p *PreviewCmd) Run(a *app) error {
	ctx := context.Background()
	c, cleanup, err := a.openConsole(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	mission, about := publishedCopy(c.Snapshot())
	if p.HTML {
		a.printf("%s", render.PreviewHTML(mission, about, c.Language()))
	} else {
		a.printf("%s", render.PreviewMarkdown(mission, about))
	}
	return nil
}

// publishedCopy returns the snapshot's copy, falling back to the built-in
// defaults for whatever is missing.
func publishedCopy(snap *content.Snapshot) (content.Mission, content.About) {
	mission, about := content.DefaultMission(), content.DefaultAbout()
	if snap == nil {
		return mission, about
	}
	if snap.Mission != nil {
		mission = *snap.Mission
	}
	if snap.About != nil {
		about = *snap.About
	}
	return mission, about
}

type LoginCmd struct {
	Username string `short:"u" help:"Username (defaults to session.username)"`
	Password string `short:"p" help:"Password (defaults to session.password)"`
}

func (l *LoginCmd) Run(a *app) error {
	ctx := context.Background()
	c, cleanup, err := a.openConsole(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	creds := content.Credentials{Username: l.Username, Password: l.Password}
	if creds.Username == "" {
		creds.Username = a.cfg.Session.Username
	}
	if creds.Password == "" {
		creds.Password = a.cfg.Session.Password
	}
	if creds.Username == "" {
		return errNoCredentials
	}

	if err := c.Login(ctx, creds); err != nil {
		return err
	}
	a.printf("Logged in to %s as %s\n", a.cfg.Service.BaseURL, creds.Username)
	return nil
}

type CopyCmd struct {
	Set CopySetCmd `cmd:"" help:"Change mission or about copy and publish it"`
}

type CopySetCmd struct {
	Heading    string `help:"Mission heading"`
	Subheading string `help:"Mission subheading"`
	BodyFile   string `name:"body-file" help:"Mission body; paragraphs separated by blank lines"`
	AboutFile  string `name:"about-file" help:"About paragraphs; separated by blank lines"`
}

func (s *CopySetCmd) Run(a *app) error {
	if s.Heading == "" && s.Subheading == "" && s.BodyFile == "" && s.AboutFile == "" {
		return errors.New("nothing to change: pass --heading, --subheading, --body-file or --about-file")
	}

	ctx := context.Background()
	c, cleanup, err := a.openConsole(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := a.ensureSession(ctx, c); err != nil {
		return err
	}

	var mp console.MissionPatch
	if s.Heading != "" {
		mp.Heading = &s.Heading
	}
	if s.Subheading != "" {
		mp.Subheading = &s.Subheading
	}
	if s.BodyFile != "" {
		text, err := os.ReadFile(s.BodyFile)
		if err != nil {
			return err
		}
		body := string(text)
		mp.BodyText = &body
	}
	if err := c.Edit(console.SubMission, mp); err != nil {
		return err
	}

	if s.AboutFile != "" {
		text, err := os.ReadFile(s.AboutFile)
		if err != nil {
			return err
		}
		about := string(text)
		if err := c.Edit(console.SubAbout, console.AboutPatch{Text: &about}); err != nil {
			return err
		}
	}

	if err := c.SaveCopy(ctx); err != nil {
		return err
	}
	a.printf("Copy published for %s\n", c.Language())
	return nil
}

type NoticeCmd struct {
	Add NoticeAddCmd `cmd:"" help:"Publish a notice"`
}

type NoticeAddCmd struct {
	Title string `arg:"" help:"Notice title"`
	Body  string `arg:"" help:"Notice body"`
}

func (n *NoticeAddCmd) Run(a *app) error {
	ctx := context.Background()
	c, cleanup, err := a.openConsole(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := a.ensureSession(ctx, c); err != nil {
		return err
	}
	notice, err := publishNotice(ctx, c, n.Title, n.Body)
	if err != nil {
		return err
	}
	a.printf("Notice %s published\n", notice.ID)
	return nil
}

var errEmptyNotice = errors.New("a notice needs both a title and a body")

func publishNotice(ctx context.Context, c *console.Console, title, body string) (*content.Notice, error) {
	patch := console.NoticePatch{Title: &title, Body: &body}
	if err := c.Edit(console.SubNotices, patch); err != nil {
		return nil, err
	}
	notice, err := c.AddNotice(ctx)
	if err != nil {
		return nil, err
	}
	if notice == nil {
		return nil, errEmptyNotice
	}
	return notice, nil
}

type ThemeCmd struct {
	Show ThemeShowCmd `cmd:"" default:"1" help:"Show the active theme"`
	Set  ThemeSetCmd  `cmd:"" help:"Set the site-wide seasonal theme"`
}

type ThemeShowCmd struct{}

func (t *ThemeShowCmd) Run(a *app) error {
	ctx := context.Background()
	c, cleanup, err := a.openConsole(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	current := c.View().Theme
	for _, th := range content.Themes {
		marker := " "
		if th == current {
			marker = "*"
		}
		a.printf("%s %s\n", marker, th)
	}
	return nil
}

type ThemeSetCmd struct {
	Theme string `arg:"" enum:"normal,advent,easter" help:"One of normal, advent, easter"`
}

func (t *ThemeSetCmd) Run(a *app) error {
	theme, err := content.ParseTheme(t.Theme)
	if err != nil {
		return err
	}

	ctx := context.Background()
	c, cleanup, err := a.openConsole(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := a.ensureSession(ctx, c); err != nil {
		return err
	}
	if err := c.SetTheme(ctx, theme); err != nil {
		return err
	}
	a.printf("Theme is now %s\n", c.View().Theme)
	return nil
}

type CollageCmd struct {
	Upload CollageUploadCmd `cmd:"" help:"Upload photos to the collage"`
}

type CollageUploadCmd struct {
	Refs []string `arg:"" help:"Image files, directories or s3:// references"`
}

func (u *CollageUploadCmd) Run(a *app) error {
	ctx := context.Background()
	c, cleanup, err := a.openConsole(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := a.ensureSession(ctx, c); err != nil {
		return err
	}
	sent, err := uploadPhotos(ctx, a, c, u.Refs)
	if err != nil {
		return err
	}
	a.printf("Uploaded %d photo(s)\n", sent)
	return nil
}

// uploadPhotos resolves refs and uploads them, returning how many were sent.
func uploadPhotos(ctx context.Context, a *app, c *console.Console, refs []string) (int, error) {
	r, err := a.resolver(ctx)
	if err != nil {
		return 0, err
	}
	files, err := r.Open(ctx, refs)
	if err != nil {
		return 0, err
	}
	if len(files) > a.cfg.Content.MaxCollagePhotos {
		a.log.Warn().
			Int("selected", len(files)).
			Int("max", a.cfg.Content.MaxCollagePhotos).
			Msg("Only the first photos will be uploaded")
	}
	if err := c.UploadPhotos(ctx, files); err != nil {
		return 0, err
	}
	return len(content.CapPhotos(files, a.cfg.Content.MaxCollagePhotos)), nil
}

type DevserverCmd struct {
	Addr string `help:"Listen address (defaults to devserver.addr)"`
}

func (d *DevserverCmd) Run(a *app) error {
	cfg := a.cfg.DevServer
	if d.Addr != "" {
		cfg.Addr = d.Addr
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := devserver.New(cfg, devserver.WithMaxPhotos(a.cfg.Content.MaxCollagePhotos))
	a.printf("Content service on http://%s (user %q)\n", cfg.Addr, cfg.Username)
	if strings.HasPrefix(cfg.Addr, ":") || strings.HasPrefix(cfg.Addr, "0.0.0.0") {
		a.log.Warn().Str("addr", cfg.Addr).Msg("Development server is listening on all interfaces")
	}
	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("devserver: %w", err)
	}
	return nil
}
