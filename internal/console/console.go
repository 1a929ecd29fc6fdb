package console

import (
	"context"
	"errors"

	"github.com/debemdeboas/homeadmin/internal/config"
	"github.com/debemdeboas/homeadmin/internal/content"
)

type Option func(*Console)

func WithThemeController(tc ThemeController) Option {
	return func(c *Console) { c.theme = tc }
}

func WithPreferences(p Preferences) Option {
	return func(c *Console) { c.prefs = p }
}

func WithOrdering(o Ordering) Option {
	return func(c *Console) { c.ordering = o }
}

func WithSeedPolicy(p SeedPolicy) Option {
	return func(c *Console) { c.seedPolicy = p }
}

func WithLanguage(lang content.Language) Option {
	return func(c *Console) { c.language = lang }
}

// WithMaxPhotos sets the collage cap used for both upload and display.
func WithMaxPhotos(n int) Option {
	return func(c *Console) { c.maxPhotos = n }
}

// Console composes the session gate, fetcher, draft store, publisher and
// collage uploader around one event loop.
type Console struct {
	loop *eventLoop
	svc  Service

	theme      ThemeController
	prefs      Preferences
	ordering   Ordering
	seedPolicy SeedPolicy
	language   content.Language
	maxPhotos  int

	gate      *SessionGate
	fetcher   *Fetcher
	drafts    *DraftStore
	publisher *Publisher
	uploader  *CollageUploader
	inflight  *inFlight

	closed  bool
	message string
}

func New(svc Service, opts ...Option) *Console {
	c := &Console{
		loop:      &eventLoop{},
		svc:       svc,
		language:  content.DefaultLanguage,
		maxPhotos: content.MaxCollagePhotos,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.theme == nil {
		c.theme = &memoryTheme{}
	}
	if c.maxPhotos <= 0 {
		c.maxPhotos = content.MaxCollagePhotos
	}

	c.inflight = newInFlight()
	c.gate = newSessionGate(c.loop, svc)
	c.fetcher = newFetcher(c.loop, svc, c.ordering)
	c.drafts = NewDraftStore(c.seedPolicy)
	c.publisher = &Publisher{
		loop:       c.loop,
		svc:        svc,
		gate:       c.gate,
		drafts:     c.drafts,
		fetcher:    c.fetcher,
		inflight:   c.inflight,
		refresh:    c.refreshInBackground,
		applyTheme: c.applyThemeLocked,
	}
	c.uploader = &CollageUploader{
		loop:     c.loop,
		svc:      svc,
		gate:     c.gate,
		inflight: c.inflight,
		refresh:  c.refreshInBackground,
		max:      c.maxPhotos,
	}

	c.gate.onChange(c.authChangedLocked)
	c.fetcher.onSnapshot(c.snapshotAppliedLocked)
	return c
}

func (c *Console) authChangedLocked(authenticated bool) {
	c.persistLocked(func(p Preferences) { p.SetAuthenticated(authenticated) })
	if !authenticated {
		c.drafts.Deactivate()
		c.message = config.ErrNotAuthenticated
		return
	}
	c.drafts.Activate()
	c.drafts.Seed(c.fetcher.current)
	c.message = ""
}

func (c *Console) snapshotAppliedLocked(snap *content.Snapshot) {
	if c.closed {
		return
	}
	if c.gate.authenticated {
		c.drafts.Seed(snap)
	}
	c.applyThemeLocked(snap.Theme)
	c.persistLocked(func(p Preferences) { p.SetSnapshot(snap) })
	consoleLogger.Debug().Str("fingerprint", Fingerprint(snap)).Msg("Drafts reconciled with snapshot")
}

func (c *Console) applyThemeLocked(theme content.Theme) {
	c.theme.Apply(theme)
	c.persistLocked(func(p Preferences) { p.SetTheme(theme) })
}

// persistLocked queues a preference write to run once the loop is released.
func (c *Console) persistLocked(fn func(p Preferences)) {
	if c.prefs == nil {
		return
	}
	p := c.prefs
	c.loop.after(func() { fn(p) })
}

// refreshInBackground reloads the snapshot after a publish. Failures are only
// logged; the publish itself already succeeded.
func (c *Console) refreshInBackground(ctx context.Context) {
	if _, err := c.Refresh(ctx); err != nil && !errors.Is(err, ErrDiscarded) {
		consoleLogger.Warn().Err(err).Msg("Refresh after publish failed")
	}
}

// Start restores cached preferences, probes for an existing session and loads
// the first snapshot. A failed load is logged and leaves the cached snapshot
// (or the built-in defaults) in place.
func (c *Console) Start(ctx context.Context) {
	if c.prefs != nil {
		c.restorePreferences()
	}

	authenticated := c.gate.Probe(ctx)
	if c.prefs != nil {
		c.prefs.SetAuthenticated(authenticated)
	}
	if _, err := c.Refresh(ctx); err != nil && !errors.Is(err, ErrDiscarded) {
		consoleLogger.Warn().Err(err).Msg("Initial content load failed")
	}
}

// restorePreferences reads the cache before taking the loop, so a slow store
// never holds up the view.
func (c *Console) restorePreferences() {
	lang := c.Language()
	if cached, ok := c.prefs.Language(); ok && cached != "" {
		lang = cached
	}
	theme, themeOK := c.prefs.Theme()
	snap, snapOK := c.prefs.Snapshot(lang)
	if was, ok := c.prefs.Authenticated(); ok && was {
		consoleLogger.Debug().Msg("Cached session flag found, probing service")
	}

	c.loop.run(func() {
		c.language = lang
		if themeOK {
			c.theme.Apply(theme)
		}
		if snapOK {
			c.fetcher.restoreLocked(snap)
		}
	})
}

// Close marks the console torn down; results arriving afterwards are ignored.
func (c *Console) Close() {
	c.loop.run(func() {
		c.closed = true
		c.fetcher.epoch++
	})
}

func (c *Console) Language() content.Language {
	var lang content.Language
	c.loop.run(func() { lang = c.language })
	return lang
}

// SetLanguage switches the content language and reloads. Fetches still in
// flight for the previous language are discarded on arrival.
func (c *Console) SetLanguage(ctx context.Context, lang content.Language) (*content.Snapshot, error) {
	c.loop.run(func() {
		c.language = lang
		c.fetcher.switchLocked(lang)
		c.persistLocked(func(p Preferences) { p.SetLanguage(lang) })
	})
	return c.Refresh(ctx)
}

// Refresh loads the snapshot for the current language.
func (c *Console) Refresh(ctx context.Context) (*content.Snapshot, error) {
	var closed bool
	c.loop.run(func() { closed = c.closed })
	if closed {
		return nil, ErrDiscarded
	}
	return c.fetcher.Fetch(ctx, c.Language())
}

func (c *Console) IsAuthenticated() bool {
	return c.gate.IsAuthenticated()
}

func (c *Console) Login(ctx context.Context, creds content.Credentials) error {
	err := c.gate.Authenticate(ctx, creds)
	var authErr *AuthError
	if errors.As(err, &authErr) {
		c.loop.run(func() { c.message = authErr.Message })
	}
	return err
}

// Logout ends the local session and destroys all drafts. Services that keep
// session credentials forget them too.
func (c *Console) Logout() {
	if s, ok := c.svc.(interface{ Logout() }); ok {
		s.Logout()
	}
	c.gate.Teardown()
}

// Edit applies patch to the sub draft without any network call.
func (c *Console) Edit(sub SubResource, patch Patch) error {
	var err error
	c.loop.run(func() { err = c.drafts.Edit(sub, patch) })
	return err
}

func (c *Console) Current(sub SubResource) (any, bool) {
	var (
		v  any
		ok bool
	)
	c.loop.run(func() { v, ok = c.drafts.Current(sub) })
	return v, ok
}

func (c *Console) Dirty(sub SubResource) bool {
	var dirty bool
	c.loop.run(func() { dirty = c.drafts.Dirty(sub) })
	return dirty
}

// SaveCopy publishes the current mission and about drafts together.
func (c *Console) SaveCopy(ctx context.Context) error {
	var (
		copy content.Copy
		ok   bool
	)
	c.loop.run(func() {
		copy.Language = c.language
		copy.Mission, ok = c.drafts.Mission()
		if ok {
			copy.About, ok = c.drafts.About()
		}
	})
	if !ok {
		return ErrNoDraft
	}
	return c.report(c.publisher.PublishCopy(ctx, copy))
}

// AddNotice publishes the compose fields. Blank fields are a silent no-op.
func (c *Console) AddNotice(ctx context.Context) (*content.Notice, error) {
	var (
		compose NoticeCompose
		ok      bool
	)
	c.loop.run(func() { compose, ok = c.drafts.Compose() })
	if !ok {
		return nil, ErrNoDraft
	}
	n, err := c.publisher.PublishNotice(ctx, compose.Title, compose.Body)
	return n, c.report(err)
}

func (c *Console) SetTheme(ctx context.Context, theme content.Theme) error {
	return c.report(c.publisher.PublishTheme(ctx, theme))
}

func (c *Console) UploadPhotos(ctx context.Context, files []content.File) error {
	return c.report(c.uploader.Upload(ctx, files))
}

func (c *Console) Uploader() *CollageUploader {
	return c.uploader
}

func (c *Console) Snapshot() *content.Snapshot {
	return c.fetcher.Current()
}

// report records the user-visible outcome of a foreground operation.
func (c *Console) report(err error) error {
	c.loop.run(func() {
		switch {
		case err == nil:
			c.message = ""
		case errors.Is(err, content.ErrUnauthorized) || errors.Is(err, ErrNotAuthenticated):
			c.message = config.ErrSessionExpired
		case errors.Is(err, ErrInFlight):
			c.message = config.ErrPublishInProgress
		default:
			c.message = err.Error()
		}
	})
	return err
}

// memoryTheme is the default ThemeController when none is injected.
type memoryTheme struct {
	current content.Theme
}

func (m *memoryTheme) Apply(theme content.Theme) { m.current = theme }

func (m *memoryTheme) Current() content.Theme {
	if m.current == "" {
		return content.ThemeNormal
	}
	return m.current
}
