package console

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/debemdeboas/homeadmin/internal/content"
)

// Publisher turns a save action for one group into exactly one mutation on
// the content service, then refreshes the snapshot.
type Publisher struct {
	loop     *eventLoop
	svc      Service
	gate     *SessionGate
	drafts   *DraftStore
	fetcher  *Fetcher
	inflight *inFlight

	refresh    func(ctx context.Context)
	applyTheme func(theme content.Theme)
}

// begin checks the session and marks g in flight.
func (p *Publisher) begin(g Group, exclusive bool, then func()) error {
	var err error
	p.loop.run(func() {
		switch {
		case !p.gate.authenticated:
			err = ErrNotAuthenticated
		case !p.inflight.begin(g, exclusive):
			err = ErrInFlight
		default:
			if then != nil {
				then()
			}
		}
	})
	return err
}

func (p *Publisher) end(g Group) {
	p.loop.run(func() { p.inflight.end(g) })
}

// failed converts a service error into a *PublishError, ending the session
// when the service rejected it. Operator drafts are left as typed.
func (p *Publisher) failed(g Group, err error) error {
	if errors.Is(err, content.ErrUnauthorized) {
		consoleLogger.Warn().Str("group", string(g)).Msg("Session rejected by content service")
		p.gate.Teardown()
	} else {
		consoleLogger.Error().Err(err).Str("group", string(g)).Msg("Publish failed")
	}
	return &PublishError{Group: g, Err: err}
}

// PublishCopy saves mission and about in one request.
func (p *Publisher) PublishCopy(ctx context.Context, copy content.Copy) error {
	if err := p.begin(GroupCopy, true, nil); err != nil {
		return err
	}

	err := p.svc.SaveCopy(ctx, copy)
	p.end(GroupCopy)
	if err != nil {
		return p.failed(GroupCopy, err)
	}

	consoleLogger.Info().Str("heading", copy.Mission.Heading).Str("language", string(copy.Language)).Msg("Copy published")
	p.refresh(ctx)
	return nil
}

// PublishNotice appends a notice. When title or body is blank after trimming
// nothing is sent and (nil, nil) is returned.
func (p *Publisher) PublishNotice(ctx context.Context, title, body string) (*content.Notice, error) {
	title, body = strings.TrimSpace(title), strings.TrimSpace(body)
	if title == "" || body == "" {
		return nil, nil
	}

	if err := p.begin(GroupNotices, true, nil); err != nil {
		return nil, err
	}

	err := p.svc.AddNotice(ctx, title, body)
	p.end(GroupNotices)
	if err != nil {
		return nil, p.failed(GroupNotices, err)
	}

	p.loop.run(p.drafts.clearCompose)
	p.refresh(ctx)

	notice := &content.Notice{Title: title, Body: body}
	p.loop.run(func() {
		snap := p.fetcher.current
		if snap == nil {
			return
		}
		for i := len(snap.Notices) - 1; i >= 0; i-- {
			if n := snap.Notices[i]; n.Title == title && n.Body == body {
				notice = &n
				return
			}
		}
	})

	consoleLogger.Info().Str("notice_id", string(notice.ID)).Str("title", title).Msg("Notice published")
	return notice, nil
}

// PublishTheme shows theme immediately, then asks the service to store it.
// The snapshot is refreshed whatever the outcome, so a failed save reverts
// the display to the last value the service confirmed. Theme saves may
// overlap; each one refreshes independently.
func (p *Publisher) PublishTheme(ctx context.Context, theme content.Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("%w: %q", content.ErrUnknownTheme, theme)
	}

	err := p.begin(GroupTheme, false, func() {
		p.drafts.setTheme(theme)
		p.applyTheme(theme)
	})
	if err != nil {
		return err
	}

	err = p.svc.SetTheme(ctx, theme)
	p.end(GroupTheme)
	if err != nil {
		err = p.failed(GroupTheme, err)
	} else {
		consoleLogger.Info().Str("theme", string(theme)).Msg("Theme published")
	}

	p.refresh(ctx)
	return err
}
