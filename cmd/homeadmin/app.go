package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/homeadmin/internal/client"
	"github.com/debemdeboas/homeadmin/internal/config"
	"github.com/debemdeboas/homeadmin/internal/console"
	"github.com/debemdeboas/homeadmin/internal/content"
	"github.com/debemdeboas/homeadmin/internal/db"
	"github.com/debemdeboas/homeadmin/internal/devserver"
	"github.com/debemdeboas/homeadmin/internal/logger"
	"github.com/debemdeboas/homeadmin/internal/media"
	"github.com/debemdeboas/homeadmin/internal/prefs"
	"github.com/debemdeboas/homeadmin/internal/render"
	"github.com/debemdeboas/homeadmin/internal/theme"
)

var errNoCredentials = errors.New("not logged in: set session.username and session.password, or " +
	config.EnvUsername + " and " + config.EnvPassword)

// app carries what every command needs once flags and config are loaded.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	in       io.Reader
	out      io.Writer
	term     *theme.Terminal
	language string
}

func newApp(cli *CLI, in io.Reader, out io.Writer) (*app, error) {
	bootLevel := cli.LogLevel
	if bootLevel == "" {
		bootLevel = "info"
	}
	config.SetLogger(logger.Component(logger.New(bootLevel), "config"))

	if err := config.LoadConfig(cli.Config); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := config.AppConfig
	if cli.LogLevel != "" {
		cfg.Logging.Level = cli.LogLevel
	}
	if cli.Language != "" {
		cfg.Content.Language = cli.Language
	}

	l := logger.New(cfg.Logging.Level)
	wireLoggers(l)

	return &app{
		cfg:      cfg,
		log:      l,
		in:       in,
		out:      out,
		term:     theme.NewTerminal(content.ThemeNormal),
		language: cli.Language,
	}, nil
}

func wireLoggers(l zerolog.Logger) {
	config.SetLogger(logger.Component(l, "config"))
	content.SetLogger(logger.Component(l, "content"))
	console.SetLogger(logger.Component(l, "console"))
	client.SetLogger(logger.Component(l, "client"))
	theme.SetLogger(logger.Component(l, "theme"))
	render.SetLogger(logger.Component(l, "render"))
	db.SetLogger(logger.Component(l, "db"))
	prefs.SetLogger(logger.Component(l, "prefs"))
	media.SetLogger(logger.Component(l, "media"))
	devserver.SetLogger(logger.Component(l, "devserver"))
}

// openConsole builds a started console against the configured service. The
// returned cleanup closes the console and the preferences store.
func (a *app) openConsole(ctx context.Context) (*console.Console, func(), error) {
	ordering, err := console.ParseOrdering(a.cfg.Console.Ordering)
	if err != nil {
		return nil, nil, err
	}
	seed, err := console.ParseSeedPolicy(a.cfg.Console.SeedPolicy)
	if err != nil {
		return nil, nil, err
	}

	cl, err := client.New(a.cfg.Service.BaseURL, client.WithTimeout(a.cfg.Service.Timeout))
	if err != nil {
		return nil, nil, err
	}

	opts := []console.Option{
		console.WithThemeController(a.term),
		console.WithOrdering(ordering),
		console.WithSeedPolicy(seed),
		console.WithLanguage(content.Language(a.cfg.Content.Language)),
		console.WithMaxPhotos(a.cfg.Content.MaxCollagePhotos),
	}

	var store *prefs.Store
	if a.cfg.Prefs.Enabled {
		store, err = prefs.Open(ctx, a.cfg.PrefsPath(), a.cfg.Prefs.Compression)
		if err != nil {
			a.log.Warn().Err(err).Msg("Preferences unavailable, continuing without them")
			store = nil
		} else {
			opts = append(opts, console.WithPreferences(store))
		}
	}

	c := console.New(cl, opts...)
	c.Start(ctx)

	if a.language != "" && c.Language() != content.Language(a.language) {
		if _, err := c.SetLanguage(ctx, content.Language(a.language)); err != nil {
			a.log.Warn().Err(err).Str("language", a.language).Msg("Content load failed")
		}
	}

	cleanup := func() {
		c.Close()
		if store != nil {
			store.Close()
		}
	}
	return c, cleanup, nil
}

// ensureSession logs in with the configured credentials unless the service
// already accepts the current session.
func (a *app) ensureSession(ctx context.Context, c *console.Console) error {
	if c.IsAuthenticated() {
		return nil
	}
	if a.cfg.Session.Username == "" {
		return errNoCredentials
	}
	return c.Login(ctx, content.Credentials{
		Username: a.cfg.Session.Username,
		Password: a.cfg.Session.Password,
	})
}

// resolver returns the photo source for collage uploads. S3 references are
// only accepted when a bucket is configured.
func (a *app) resolver(ctx context.Context) (*media.Resolver, error) {
	r := &media.Resolver{FS: media.NewFSSource("")}
	if a.cfg.Media.S3.Bucket == "" {
		return r, nil
	}
	s3, err := media.NewS3Source(ctx, a.cfg.Media.S3)
	if err != nil {
		return nil, err
	}
	r.S3 = s3
	return r, nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
