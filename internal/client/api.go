package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/debemdeboas/homeadmin/internal/config"
	"github.com/debemdeboas/homeadmin/internal/content"
)

type statusResponse struct {
	Authenticated bool `json:"authenticated"`
}

type noticeRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type themeRequest struct {
	Theme content.Theme `json:"liturgicalTheme"`
}

// Status asks whether the current session cookie is still valid. A 401 is an
// answer, not an error.
func (c *Client) Status(ctx context.Context) (bool, error) {
	var out statusResponse
	err := c.do(ctx, request{method: http.MethodGet, path: config.APIStatus}, &out)
	if err != nil {
		if errors.Is(err, content.ErrUnauthorized) {
			return false, nil
		}
		return false, err
	}
	return out.Authenticated, nil
}

// Login posts credentials. A rejected login comes back as LoginResult with
// OK false, whatever the status code, as long as the body says so.
func (c *Client) Login(ctx context.Context, creds content.Credentials) (content.LoginResult, error) {
	req, err := jsonRequest(http.MethodPost, config.APILogin, creds)
	if err != nil {
		return content.LoginResult{}, err
	}

	resp, _, err := c.send(ctx, req)
	if err != nil {
		return content.LoginResult{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return content.LoginResult{}, fmt.Errorf("login: read response: %w", err)
	}

	var res content.LoginResult
	if jsonErr := json.Unmarshal(body, &res); jsonErr == nil && (res.OK || res.Error != "") {
		if res.OK && (resp.StatusCode < 200 || resp.StatusCode > 299) {
			return content.LoginResult{}, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		}
		return res, nil
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return content.LoginResult{OK: false, Error: config.ErrLoginFailed}, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return content.LoginResult{}, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return content.LoginResult{}, fmt.Errorf("login: unexpected response %q", truncate(string(body)))
}

// Home loads the snapshot for lang. The tag is forwarded as-is.
func (c *Client) Home(ctx context.Context, lang content.Language) (*content.Snapshot, error) {
	query := url.Values{}
	query.Set(config.QueryLanguage, string(lang))

	var snap content.Snapshot
	if err := c.do(ctx, request{method: http.MethodGet, path: config.APIHome, query: query}, &snap); err != nil {
		return nil, err
	}
	snap.Language = lang
	if snap.Theme == "" {
		snap.Theme = content.ThemeNormal
	}
	return &snap, nil
}

// SaveCopy stores mission and about. A non-empty copy.Language is sent as the
// language query parameter.
func (c *Client) SaveCopy(ctx context.Context, copy content.Copy) error {
	req, err := jsonRequest(http.MethodPut, config.APICopy, copy)
	if err != nil {
		return err
	}
	if copy.Language != "" {
		req.query = url.Values{config.QueryLanguage: {string(copy.Language)}}
	}
	return c.do(ctx, req, nil)
}

func (c *Client) AddNotice(ctx context.Context, title, body string) error {
	req, err := jsonRequest(http.MethodPost, config.APINotices, noticeRequest{Title: title, Body: body})
	if err != nil {
		return err
	}
	return c.do(ctx, req, nil)
}

func (c *Client) SetTheme(ctx context.Context, theme content.Theme) error {
	req, err := jsonRequest(http.MethodPut, config.APITheme, themeRequest{Theme: theme})
	if err != nil {
		return err
	}
	return c.do(ctx, req, nil)
}

func truncate(s string) string {
	if len(s) > maxErrorBody {
		return s[:maxErrorBody]
	}
	return s
}
