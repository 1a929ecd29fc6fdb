package devserver

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/debemdeboas/homeadmin/internal/config"
	"github.com/debemdeboas/homeadmin/internal/content"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func testConfig() config.DevServerConfig {
	return config.DevServerConfig{Username: "admin", Password: "secret", SessionTTL: time.Hour}
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, s *Server) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, config.APILogin, strings.NewReader(`{"username":"admin","password":"secret"}`))
	rec := serve(s, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected login to succeed, got %d: %s", rec.Code, rec.Body.String())
	}
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == config.CookieSession {
			return ck
		}
	}
	t.Fatal("Expected a session cookie")
	return nil
}

func withSession(req *http.Request, ck *http.Cookie) *http.Request {
	if ck != nil {
		req.AddCookie(ck)
	}
	return req
}

func multipartBody(t *testing.T, field string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, data := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+name+`"`)
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		part.Write(data)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func TestLogin(t *testing.T) {
	s := New(testConfig())

	testCases := []struct {
		name           string
		body           string
		expectedStatus int
		expectOK       bool
		expectCookie   bool
		expectedError  string
	}{
		{
			name:           "Valid credentials set a session cookie",
			body:           `{"username":"admin","password":"secret"}`,
			expectedStatus: http.StatusOK,
			expectOK:       true,
			expectCookie:   true,
		},
		{
			name:           "Wrong password is rejected",
			body:           `{"username":"admin","password":"nope"}`,
			expectedStatus: http.StatusUnauthorized,
			expectedError:  config.ErrBadCredentials,
		},
		{
			name:           "Malformed body is a bad request",
			body:           `{"username":`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(s, httptest.NewRequest(http.MethodPost, config.APILogin, strings.NewReader(tc.body)))
			if rec.Code != tc.expectedStatus {
				t.Errorf("Expected status %d, got %d", tc.expectedStatus, rec.Code)
			}

			var res content.LoginResult
			if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
				t.Fatalf("Expected a JSON login result: %v", err)
			}
			if res.OK != tc.expectOK {
				t.Errorf("Expected ok=%v, got %+v", tc.expectOK, res)
			}
			if !tc.expectOK && res.Error == "" {
				t.Error("Expected an error message for a rejected login")
			}
			if tc.expectedError != "" && res.Error != tc.expectedError {
				t.Errorf("Expected error %q, got %q", tc.expectedError, res.Error)
			}

			hasCookie := false
			for _, ck := range rec.Result().Cookies() {
				if ck.Name == config.CookieSession && ck.Value != "" {
					hasCookie = true
					if !ck.HttpOnly {
						t.Error("Expected session cookie to be HttpOnly")
					}
				}
			}
			if hasCookie != tc.expectCookie {
				t.Errorf("Expected cookie=%v, got %v", tc.expectCookie, hasCookie)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	s := New(testConfig())
	ck := login(t, s)

	testCases := []struct {
		name     string
		cookie   *http.Cookie
		expected bool
	}{
		{"No cookie is unauthenticated", nil, false},
		{"Unknown token is unauthenticated", &http.Cookie{Name: config.CookieSession, Value: "forged"}, false},
		{"Live session is authenticated", ck, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(s, withSession(httptest.NewRequest(http.MethodGet, config.APIStatus, nil), tc.cookie))
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d", rec.Code)
			}
			var res statusResponse
			json.NewDecoder(rec.Body).Decode(&res)
			if res.Authenticated != tc.expected {
				t.Errorf("Expected authenticated=%v, got %v", tc.expected, res.Authenticated)
			}
		})
	}
}

func TestMutationsRequireSession(t *testing.T) {
	s := New(testConfig())

	testCases := []struct {
		name   string
		method string
		path   string
	}{
		{"Saving copy", http.MethodPut, config.APICopy},
		{"Adding a notice", http.MethodPost, config.APINotices},
		{"Setting the theme", http.MethodPut, config.APITheme},
		{"Uploading photos", http.MethodPost, config.APICollage},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(s, httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{}`)))
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("Expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestSessionExpiry(t *testing.T) {
	s := New(testConfig())
	now := time.Now()
	s.sessions.now = func() time.Time { return now }
	ck := login(t, s)

	body := `{"liturgicalTheme":"advent"}`
	rec := serve(s, withSession(httptest.NewRequest(http.MethodPut, config.APITheme, strings.NewReader(body)), ck))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected theme to save, got %d", rec.Code)
	}

	now = now.Add(2 * time.Hour)
	rec = serve(s, withSession(httptest.NewRequest(http.MethodPut, config.APITheme, strings.NewReader(body)), ck))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected expired session to get 401, got %d", rec.Code)
	}
	if s.sessions.tokens.Len() != 0 {
		t.Error("Expected expired token to be dropped")
	}
}

func TestCopyIsLanguageScoped(t *testing.T) {
	s := New(testConfig())
	ck := login(t, s)

	body := `{"mission":{"heading":"Bienvenidos","subheading":"","body":["Misa"]},"about":{"paragraphs":["Fundada"],"quickLinks":[]}}`
	rec := serve(s, withSession(httptest.NewRequest(http.MethodPut, config.APICopy+"?language=es", strings.NewReader(body)), ck))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", rec.Code)
	}

	es := s.Store().Home("es")
	if es.Mission == nil || es.Mission.Heading != "Bienvenidos" {
		t.Errorf("Expected Spanish mission, got %+v", es.Mission)
	}
	if en := s.Store().Home("en"); en.Mission != nil {
		t.Errorf("Expected no English mission, got %+v", en.Mission)
	}

	rec = serve(s, httptest.NewRequest(http.MethodGet, config.APIHome+"?language=es", nil))
	var snap content.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatal(err)
	}
	if snap.Mission == nil || snap.Mission.Body[0] != "Misa" {
		t.Errorf("Expected Spanish copy over HTTP, got %+v", snap.Mission)
	}
	if snap.Theme != content.ThemeNormal {
		t.Errorf("Expected normal theme, got %q", snap.Theme)
	}
}

func TestNotices(t *testing.T) {
	s := New(testConfig())
	ck := login(t, s)

	testCases := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{"Title and body create a notice", `{"title":"Bake sale","body":"Sunday after Mass"}`, http.StatusCreated},
		{"Blank title is rejected", `{"title":"  ","body":"Sunday"}`, http.StatusBadRequest},
		{"Blank body is rejected", `{"title":"Choir","body":""}`, http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(s, withSession(httptest.NewRequest(http.MethodPost, config.APINotices, strings.NewReader(tc.body)), ck))
			if rec.Code != tc.expectedStatus {
				t.Errorf("Expected status %d, got %d", tc.expectedStatus, rec.Code)
			}
		})
	}

	s.Store().AddNotice("Choir", "Practice on Thursday")
	notices := s.Store().Home("en").Notices
	if len(notices) != 2 || notices[0].Title != "Choir" || notices[0].ID == "" {
		t.Errorf("Expected newest notice first with an id, got %+v", notices)
	}
}

func TestTheme(t *testing.T) {
	s := New(testConfig())
	ck := login(t, s)

	testCases := []struct {
		name           string
		body           string
		expectedStatus int
		expectedTheme  content.Theme
	}{
		{"Known theme is stored", `{"liturgicalTheme":"easter"}`, http.StatusNoContent, content.ThemeEaster},
		{"Unknown theme is rejected", `{"liturgicalTheme":"lent"}`, http.StatusBadRequest, content.ThemeEaster},
		{"Wrong method is not allowed", ``, http.StatusMethodNotAllowed, content.ThemeEaster},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			method := http.MethodPut
			if tc.body == "" {
				method = http.MethodGet
			}
			rec := serve(s, withSession(httptest.NewRequest(method, config.APITheme, strings.NewReader(tc.body)), ck))
			if rec.Code != tc.expectedStatus {
				t.Errorf("Expected status %d, got %d", tc.expectedStatus, rec.Code)
			}
			if got := s.Store().Theme(); got != tc.expectedTheme {
				t.Errorf("Expected theme %q, got %q", tc.expectedTheme, got)
			}
		})
	}

	if got := s.Store().Home("pt").Theme; got != content.ThemeEaster {
		t.Errorf("Expected theme to be site-wide, got %q for pt", got)
	}
}

func TestCollage(t *testing.T) {
	testCases := []struct {
		name           string
		field          string
		files          map[string][]byte
		expectedStatus int
		expectedStored int
	}{
		{
			name:           "Images are stored",
			field:          config.FormFieldImages,
			files:          map[string][]byte{"altar.png": pngBytes, "choir.png": pngBytes},
			expectedStatus: http.StatusNoContent,
			expectedStored: 2,
		},
		{
			name:           "Non-image part rejects the whole upload",
			field:          config.FormFieldImages,
			files:          map[string][]byte{"altar.png": pngBytes, "notes.txt": []byte("plain text")},
			expectedStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:           "Too many parts are rejected",
			field:          config.FormFieldImages,
			files:          map[string][]byte{"a.png": pngBytes, "b.png": pngBytes, "c.png": pngBytes},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Wrong field name carries no images",
			field:          "photos",
			files:          map[string][]byte{"a.png": pngBytes},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := New(testConfig(), WithMaxPhotos(2))
			ck := login(t, s)

			body, ctype := multipartBody(t, tc.field, tc.files)
			req := withSession(httptest.NewRequest(http.MethodPost, config.APICollage, body), ck)
			req.Header.Set(config.HCType, ctype)

			rec := serve(s, req)
			if rec.Code != tc.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tc.expectedStatus, rec.Code, rec.Body.String())
			}
			if got := s.Store().PhotoCount(); got != tc.expectedStored {
				t.Errorf("Expected %d stored photos, got %d", tc.expectedStored, got)
			}
		})
	}
}

func TestServePhoto(t *testing.T) {
	s := New(testConfig())
	p := s.Store().AddPhoto("/tmp/altar.png", "image/png", pngBytes)

	if p.Alt != "altar" {
		t.Errorf("Expected alt text from file name, got %q", p.Alt)
	}

	rec := serve(s, httptest.NewRequest(http.MethodGet, p.URL, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get(config.HCType); ct != "image/png" {
		t.Errorf("Expected image/png, got %q", ct)
	}
	if !bytes.Equal(rec.Body.Bytes(), pngBytes) {
		t.Error("Expected stored bytes to be served")
	}

	rec = serve(s, httptest.NewRequest(http.MethodGet, config.CollagePhotoPath+"missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown photo, got %d", rec.Code)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := New(testConfig())

	req := httptest.NewRequest(http.MethodGet, config.APIHome, nil)
	req.Header.Set(config.HRequestID, "req-42")
	rec := serve(s, req)
	if got := rec.Header().Get(config.HRequestID); got != "req-42" {
		t.Errorf("Expected request id to be echoed, got %q", got)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("Expected secure headers on every response")
	}

	rec = serve(s, httptest.NewRequest(http.MethodGet, config.APIHome, nil))
	if rec.Header().Get(config.HRequestID) == "" {
		t.Error("Expected a generated request id")
	}
}
