package main

import (
	"bufio"
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"

	"github.com/debemdeboas/homeadmin/internal/console"
	"github.com/debemdeboas/homeadmin/internal/content"
	"github.com/debemdeboas/homeadmin/internal/render"
)

const shellHelp = `Commands:
  view                    show the console screen
  status                  show session and content status
  json                    print the snapshot as JSON
  preview [html]          preview the mission and about drafts
  login [USER PASS]       log in (defaults to the configured credentials)
  logout                  end the session and drop all drafts
  lang TAG                switch content language
  refresh                 reload content
  heading TEXT            edit the mission heading
  subheading TEXT         edit the mission subheading
  body                    edit the mission body (end with a line holding ".")
  about                   edit the about paragraphs (end with a line holding ".")
  save                    publish mission and about
  notice-title TEXT       set the notice title
  notice-body TEXT        set the notice body
  notice                  publish the composed notice
  theme NAME              set the seasonal theme (normal, advent, easter)
  upload REF...           upload photos (files, directories, s3:// keys)
  quit                    leave the shell
`

type ShellCmd struct{}

func (s *ShellCmd) Run(a *app) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	c, cleanup, err := a.openConsole(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := a.ensureSession(ctx, c); err != nil && !errors.Is(err, errNoCredentials) {
		a.log.Warn().Err(err).Msg("Automatic login failed")
	}

	sh := newShell(a, c)
	sh.exec(ctx, "view")
	return sh.run(ctx)
}

// shell is a line-oriented loop over one console. Operation failures are
// printed and the loop carries on.
type shell struct {
	a    *app
	c    *console.Console
	scan *bufio.Scanner
}

func newShell(a *app, c *console.Console) *shell {
	return &shell{a: a, c: c, scan: bufio.NewScanner(a.in)}
}

func (s *shell) run(ctx context.Context) error {
	for {
		s.a.printf("homeadmin> ")
		if !s.scan.Scan() {
			s.a.printf("\n")
			return s.scan.Err()
		}
		if quit := s.exec(ctx, s.scan.Text()); quit {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// exec runs one command line and reports whether the shell should exit.
func (s *shell) exec(ctx context.Context, line string) bool {
	verb, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	var err error
	switch verb {
	case "":
	case "quit", "exit":
		return true
	case "help", "?":
		s.a.printf("%s", shellHelp)
	case "view":
		err = render.View(s.a.out, s.c.View(), s.a.term.Palette())
	case "status":
		printStatus(s.a, s.c)
	case "json":
		err = showJSON(s.a, s.c, "")
	case "preview":
		err = s.preview(rest == "html")
	case "login":
		err = s.login(ctx, rest)
	case "logout":
		s.c.Logout()
		s.a.printf("Logged out\n")
	case "lang":
		if rest == "" {
			s.a.printf("%s\n", s.c.Language())
			break
		}
		_, err = s.c.SetLanguage(ctx, content.Language(rest))
	case "refresh":
		_, err = s.c.Refresh(ctx)
	case "heading":
		err = s.c.Edit(console.SubMission, console.MissionPatch{Heading: &rest})
	case "subheading":
		err = s.c.Edit(console.SubMission, console.MissionPatch{Subheading: &rest})
	case "body":
		text := s.readBlock()
		err = s.c.Edit(console.SubMission, console.MissionPatch{BodyText: &text})
	case "about":
		text := s.readBlock()
		err = s.c.Edit(console.SubAbout, console.AboutPatch{Text: &text})
	case "save":
		if err = s.c.SaveCopy(ctx); err == nil {
			s.a.printf("Copy published\n")
		}
	case "notice-title":
		err = s.c.Edit(console.SubNotices, console.NoticePatch{Title: &rest})
	case "notice-body":
		err = s.c.Edit(console.SubNotices, console.NoticePatch{Body: &rest})
	case "notice":
		err = s.notice(ctx)
	case "theme":
		err = s.theme(ctx, rest)
	case "upload":
		var sent int
		if sent, err = uploadPhotos(ctx, s.a, s.c, strings.Fields(rest)); err == nil {
			s.a.printf("Uploaded %d photo(s)\n", sent)
		}
	default:
		s.a.printf("Unknown command %q, try help\n", verb)
	}

	if err != nil {
		s.fail(err)
	}
	return false
}

func (s *shell) fail(err error) {
	msg := err.Error()
	var authErr *console.AuthError
	switch {
	case errors.Is(err, console.ErrNoDraft):
		msg = "log in to edit"
	case errors.As(err, &authErr),
		errors.Is(err, content.ErrUnauthorized),
		errors.Is(err, console.ErrNotAuthenticated),
		errors.Is(err, console.ErrInFlight):
		if m := s.c.View().Message; m != "" {
			msg = m
		}
	}
	s.a.printf("%s\n", s.a.term.Styles().Error.Render("error: "+msg))
}

// readBlock collects lines up to a line holding a single ".".
func (s *shell) readBlock() string {
	var lines []string
	for s.scan.Scan() {
		line := s.scan.Text()
		if strings.TrimSpace(line) == "." {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (s *shell) preview(html bool) error {
	v := s.c.View()
	if v.Mission == nil || v.About == nil {
		return console.ErrNoDraft
	}
	if html {
		s.a.printf("%s", render.PreviewHTML(*v.Mission, *v.About, v.Language))
	} else {
		s.a.printf("%s", render.PreviewMarkdown(*v.Mission, *v.About))
	}
	return nil
}

func (s *shell) login(ctx context.Context, args string) error {
	creds := content.Credentials{Username: s.a.cfg.Session.Username, Password: s.a.cfg.Session.Password}
	if fields := strings.Fields(args); len(fields) == 2 {
		creds = content.Credentials{Username: fields[0], Password: fields[1]}
	}
	if creds.Username == "" {
		return errNoCredentials
	}
	if err := s.c.Login(ctx, creds); err != nil {
		return err
	}
	s.a.printf("Logged in as %s\n", creds.Username)
	return nil
}

func (s *shell) notice(ctx context.Context) error {
	n, err := s.c.AddNotice(ctx)
	if err != nil {
		return err
	}
	if n == nil {
		return errEmptyNotice
	}
	s.a.printf("Notice %s published\n", n.ID)
	return nil
}

func (s *shell) theme(ctx context.Context, name string) error {
	t, err := content.ParseTheme(name)
	if err != nil {
		return err
	}
	if err := s.c.SetTheme(ctx, t); err != nil {
		return err
	}
	s.a.printf("Theme is now %s\n", s.c.View().Theme)
	return nil
}
