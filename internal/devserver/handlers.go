package devserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

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
	Theme string `json:"liturgicalTheme"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(config.HCType, config.CTypeJSON)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(v)
}

func requestLanguage(r *http.Request) content.Language {
	if lang := strings.TrimSpace(r.URL.Query().Get(config.QueryLanguage)); lang != "" {
		return content.Language(lang)
	}
	return content.DefaultLanguage
}

func (s *Server) serveStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Authenticated: s.authenticated(r)})
}

func (s *Server) serveLogin(w http.ResponseWriter, r *http.Request) {
	l := zerolog.Ctx(r.Context())
	if r.Method != http.MethodPost {
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	var creds content.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		writeJSON(w, http.StatusBadRequest, content.LoginResult{OK: false, Error: config.HTTPErrBadRequest})
		return
	}

	userOK := credentialsMatch(creds.Username, s.cfg.Username)
	passOK := credentialsMatch(creds.Password, s.cfg.Password)
	if !userOK || !passOK {
		l.Info().Str("username", creds.Username).Msg("Login rejected")
		writeJSON(w, http.StatusUnauthorized, content.LoginResult{OK: false, Error: config.ErrBadCredentials})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     config.CookieSession,
		Value:    s.sessions.Create(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   r.TLS != nil,
		MaxAge:   int(s.sessions.ttl.Seconds()),
	})

	l.Info().Str("username", creds.Username).Msg("Login accepted")
	writeJSON(w, http.StatusOK, content.LoginResult{OK: true})
}

func (s *Server) serveHome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Home(requestLanguage(r)))
}

func (s *Server) serveCopy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	var c content.Copy
	if err := decodeJSON(w, r, &c); err != nil {
		http.Error(w, config.HTTPErrBadRequest, http.StatusBadRequest)
		return
	}

	lang := requestLanguage(r)
	s.store.SaveCopy(lang, c)
	zerolog.Ctx(r.Context()).Info().
		Str("language", string(lang)).
		Str("heading", c.Mission.Heading).
		Msg("Copy saved")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) serveNotices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	var req noticeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		http.Error(w, config.HTTPErrBadRequest, http.StatusBadRequest)
		return
	}
	title, body := strings.TrimSpace(req.Title), strings.TrimSpace(req.Body)
	if title == "" || body == "" {
		http.Error(w, "title and body are required", http.StatusBadRequest)
		return
	}

	notices := s.store.AddNotice(title, body)
	zerolog.Ctx(r.Context()).Info().Str("title", title).Int("notices", len(notices)).Msg("Notice added")
	writeJSON(w, http.StatusCreated, notices)
}

func (s *Server) serveTheme(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	var req themeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		http.Error(w, config.HTTPErrBadRequest, http.StatusBadRequest)
		return
	}
	t, err := content.ParseTheme(req.Theme)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.store.SetTheme(t)
	zerolog.Ctx(r.Context()).Info().Str("theme", t.String()).Msg("Theme set")
	w.WriteHeader(http.StatusNoContent)
}

type upload struct {
	filename string
	mime     string
	data     []byte
}

// serveCollage accepts up to maxPhotos image parts. Nothing is stored unless
// every part is a valid image.
func (s *Server) serveCollage(w http.ResponseWriter, r *http.Request) {
	l := zerolog.Ctx(r.Context())
	if r.Method != http.MethodPost {
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	mr, err := r.MultipartReader()
	if err != nil {
		http.Error(w, config.HTTPErrBadRequest, http.StatusBadRequest)
		return
	}

	var uploads []upload
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			l.Warn().Err(err).Msg("Failed to read collage part")
			http.Error(w, config.HTTPErrBadRequest, http.StatusBadRequest)
			return
		}
		if part.FormName() != config.FormFieldImages {
			part.Close()
			continue
		}
		if len(uploads) == s.maxPhotos {
			part.Close()
			http.Error(w, config.HTTPErrTooManyPhotos, http.StatusBadRequest)
			return
		}

		data, err := io.ReadAll(io.LimitReader(part, maxPhotoBytes+1))
		part.Close()
		if err != nil {
			http.Error(w, config.HTTPErrBadRequest, http.StatusBadRequest)
			return
		}
		if len(data) > maxPhotoBytes {
			http.Error(w, "photo too large", http.StatusRequestEntityTooLarge)
			return
		}

		mtype := mimetype.Detect(data)
		if !strings.HasPrefix(mtype.String(), "image/") {
			l.Info().Str("file", part.FileName()).Str("mime", mtype.String()).Msg("Rejected non-image upload")
			http.Error(w, config.HTTPErrUnsupportedMedia, http.StatusUnsupportedMediaType)
			return
		}
		uploads = append(uploads, upload{filename: part.FileName(), mime: mtype.String(), data: data})
	}

	if len(uploads) == 0 {
		http.Error(w, "no images in upload", http.StatusBadRequest)
		return
	}

	for _, u := range uploads {
		s.store.AddPhoto(u.filename, u.mime, u.data)
	}
	l.Info().Int("photos", len(uploads)).Int("total", s.store.PhotoCount()).Msg("Collage photos stored")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) servePhoto(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	data, mime, ok := s.store.Photo(r.PathValue("id"))
	if !ok {
		http.Error(w, config.HTTPErrNotFound, http.StatusNotFound)
		return
	}
	w.Header().Set(config.HCType, mime)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}
