package console

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/debemdeboas/homeadmin/internal/content"
)

type homeReply struct {
	snap *content.Snapshot
	err  error
}

type homeCall struct {
	lang  content.Language
	reply chan homeReply
}

// fakeService keeps content in memory. With holdHome set every Home call is
// parked on homeCalls until the test replies, so tests decide arrival order.
type fakeService struct {
	mu sync.Mutex

	authenticated bool
	statusErr     error
	loginErr      error
	password      string

	mission *content.Mission
	about   *content.About
	notices []content.Notice
	theme   content.Theme
	photos  []content.Photo

	homeErr   error
	saveErr   error
	noticeErr error
	themeErr  error
	uploadErr error

	holdHome  bool
	homeCalls chan homeCall

	saveStarted chan struct{}
	saveRelease chan struct{}

	noticeStarted chan struct{}
	noticeRelease chan struct{}

	homeCount   int
	noticeCount int
	saved       []content.Copy
	themes      []content.Theme
	uploaded    [][]string
}

func newFakeService() *fakeService {
	snap := sampleSnapshot("Welcome")
	return &fakeService{
		authenticated: true,
		password:      "secret",
		mission:       snap.Mission,
		about:         snap.About,
		notices:       snap.Notices,
		theme:         content.ThemeNormal,
		homeCalls:     make(chan homeCall, 16),
	}
}

func (f *fakeService) snapshotLocked(lang content.Language) *content.Snapshot {
	snap := &content.Snapshot{
		Notices:  append([]content.Notice(nil), f.notices...),
		Theme:    f.theme,
		Photos:   append([]content.Photo(nil), f.photos...),
		Language: lang,
	}
	if f.mission != nil {
		m := f.mission.Clone()
		snap.Mission = &m
	}
	if f.about != nil {
		a := f.about.Clone()
		snap.About = &a
	}
	return snap
}

// snapshotWith returns the current content with theme overridden, for
// replying to held Home calls.
func (f *fakeService) snapshotWith(theme content.Theme) *content.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := f.snapshotLocked(content.DefaultLanguage)
	snap.Theme = theme
	return snap
}

func (f *fakeService) set(fn func(f *fakeService)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeService) Status(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authenticated, f.statusErr
}

func (f *fakeService) Login(ctx context.Context, creds content.Credentials) (content.LoginResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loginErr != nil {
		return content.LoginResult{}, f.loginErr
	}
	if creds.Username != "admin" || creds.Password != f.password {
		return content.LoginResult{OK: false, Error: "Invalid credentials"}, nil
	}
	f.authenticated = true
	return content.LoginResult{OK: true}, nil
}

func (f *fakeService) Home(ctx context.Context, lang content.Language) (*content.Snapshot, error) {
	f.mu.Lock()
	f.homeCount++
	if f.holdHome {
		f.mu.Unlock()
		call := homeCall{lang: lang, reply: make(chan homeReply, 1)}
		f.homeCalls <- call
		r := <-call.reply
		return r.snap, r.err
	}
	defer f.mu.Unlock()
	if f.homeErr != nil {
		return nil, f.homeErr
	}
	return f.snapshotLocked(lang), nil
}

func (f *fakeService) SaveCopy(ctx context.Context, c content.Copy) error {
	f.mu.Lock()
	started, release := f.saveStarted, f.saveRelease
	f.mu.Unlock()
	if started != nil {
		started <- struct{}{}
		<-release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.authenticated {
		return content.ErrUnauthorized
	}
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, c)
	m, a := c.Mission.Clone(), c.About.Clone()
	f.mission, f.about = &m, &a
	return nil
}

func (f *fakeService) AddNotice(ctx context.Context, title, body string) error {
	f.mu.Lock()
	started, release := f.noticeStarted, f.noticeRelease
	f.mu.Unlock()
	if started != nil {
		started <- struct{}{}
		<-release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.noticeCount++
	if !f.authenticated {
		return content.ErrUnauthorized
	}
	if f.noticeErr != nil {
		return f.noticeErr
	}
	id := content.NoticeID(fmt.Sprintf("n%d", len(f.notices)+1))
	f.notices = append(f.notices, content.Notice{ID: id, Title: title, Body: body})
	return nil
}

func (f *fakeService) SetTheme(ctx context.Context, theme content.Theme) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.themes = append(f.themes, theme)
	if !f.authenticated {
		return content.ErrUnauthorized
	}
	if f.themeErr != nil {
		return f.themeErr
	}
	f.theme = theme
	return nil
}

func (f *fakeService) UploadCollage(ctx context.Context, files []content.File) error {
	names := make([]string, 0, len(files))
	for _, file := range files {
		rc, err := file.Open(ctx)
		if err != nil {
			return err
		}
		if _, err := io.ReadAll(rc); err != nil {
			rc.Close()
			return err
		}
		rc.Close()
		names = append(names, file.Name)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.authenticated {
		return content.ErrUnauthorized
	}
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploaded = append(f.uploaded, names)
	for _, name := range names {
		f.photos = append(f.photos, content.Photo{ID: name, URL: "/collage/" + name, Alt: name})
	}
	return nil
}

type themeRecorder struct {
	mu      sync.Mutex
	current content.Theme
	applied []content.Theme
}

func (r *themeRecorder) Apply(theme content.Theme) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = theme
	r.applied = append(r.applied, theme)
}

func (r *themeRecorder) Current() content.Theme {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

type memoryPrefs struct {
	mu            sync.Mutex
	authenticated *bool
	theme         content.Theme
	language      content.Language
	snapshots     map[content.Language]*content.Snapshot
}

func newMemoryPrefs() *memoryPrefs {
	return &memoryPrefs{snapshots: make(map[content.Language]*content.Snapshot)}
}

func (p *memoryPrefs) Authenticated() (bool, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.authenticated == nil {
		return false, false
	}
	return *p.authenticated, true
}

func (p *memoryPrefs) SetAuthenticated(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.authenticated = &v
}

func (p *memoryPrefs) Theme() (content.Theme, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.theme, p.theme != ""
}

func (p *memoryPrefs) SetTheme(theme content.Theme) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.theme = theme
}

func (p *memoryPrefs) Language() (content.Language, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.language, p.language != ""
}

func (p *memoryPrefs) SetLanguage(lang content.Language) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.language = lang
}

func (p *memoryPrefs) Snapshot(lang content.Language) (*content.Snapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	snap, ok := p.snapshots[lang]
	return snap, ok
}

func (p *memoryPrefs) SetSnapshot(snap *content.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshots[snap.Language] = snap
}

// slowPrefs parks every SetSnapshot until release is closed.
type slowPrefs struct {
	*memoryPrefs
	writing chan struct{}
	release chan struct{}
	once    sync.Once
}

func newSlowPrefs() *slowPrefs {
	return &slowPrefs{
		memoryPrefs: newMemoryPrefs(),
		writing:     make(chan struct{}, 16),
		release:     make(chan struct{}),
	}
}

func (p *slowPrefs) SetSnapshot(snap *content.Snapshot) {
	p.writing <- struct{}{}
	<-p.release
	p.memoryPrefs.SetSnapshot(snap)
}

func (p *slowPrefs) unblock() {
	p.once.Do(func() { close(p.release) })
}

// gatedFile is a photo whose Open signals started and waits for release.
func gatedFile(name string, started, release chan struct{}) content.File {
	return content.File{
		Name: name,
		Open: func(ctx context.Context) (io.ReadCloser, error) {
			started <- struct{}{}
			<-release
			return io.NopCloser(strings.NewReader("jpeg bytes")), nil
		},
	}
}

// photoFiles returns n files and a func reporting which were opened.
func photoFiles(n int) ([]content.File, func() []string) {
	var (
		mu     sync.Mutex
		opened []string
	)
	files := make([]content.File, n)
	for i := range files {
		name := fmt.Sprintf("photo-%d.jpg", i+1)
		files[i] = content.File{
			Name: name,
			Open: func(ctx context.Context) (io.ReadCloser, error) {
				mu.Lock()
				opened = append(opened, name)
				mu.Unlock()
				return io.NopCloser(strings.NewReader("jpeg bytes")), nil
			},
		}
	}
	return files, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), opened...)
	}
}

func nextHomeCall(t *testing.T, f *fakeService) homeCall {
	t.Helper()
	select {
	case call := <-f.homeCalls:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for a content fetch")
		return homeCall{}
	}
}

func waitErr(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for operation to finish")
		return nil
	}
}

func startConsole(t *testing.T, f *fakeService, opts ...Option) *Console {
	t.Helper()
	c := New(f, opts...)
	c.Start(context.Background())
	t.Cleanup(c.Close)
	return c
}
