package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gbnam453/nalbom-admin/internal/api"
	"github.com/gbnam453/nalbom-admin/internal/auth"
	"github.com/gbnam453/nalbom-admin/internal/config"
	"github.com/gbnam453/nalbom-admin/internal/drive"
	"github.com/gbnam453/nalbom-admin/internal/middleware"
	"github.com/gbnam453/nalbom-admin/internal/session"
	"github.com/gbnam453/nalbom-admin/internal/testutil"
)

const (
	testAdminID = "admin"
	testAdminPW = "nalbom!"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type testEnv struct {
	e         *echo.Echo
	api       *testutil.FakeAPI
	clock     *testClock
	countdown *session.Countdown
	cookie    *http.Cookie

	mu     sync.Mutex
	stores map[string]*session.MemoryStorage
}

func setupTestEnvironment(t *testing.T) *testEnv {
	t.Helper()

	fake := testutil.NewFakeAPI(t)
	cfg := &config.Config{
		APIBaseURL:     fake.URL,
		SessionWindow:  600,
		MaxImageSize:   1,
		DriveTemplate:  config.DriveTemplateUC,
		SweeperEnabled: false,
	}

	client, err := api.NewClient(api.ClientOptions{BaseURL: cfg.APIBaseURL})
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPW), bcrypt.MinCost)
	require.NoError(t, err)
	creds, err := auth.NewCredentials(testAdminID, "", string(hash))
	require.NoError(t, err)

	countdown := session.NewCountdown(10 * time.Millisecond)
	t.Cleanup(countdown.Close)

	env := &testEnv{
		api:       fake,
		clock:     &testClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)},
		countdown: countdown,
		stores:    make(map[string]*session.MemoryStorage),
	}

	h := NewHandler(cfg, client, creds, countdown, drive.NewConverter(drive.TemplateUC))

	e := echo.New()
	e.Use(middleware.BrowserSession(middleware.BrowserSessionConfig{
		Storage: env.storage,
		Window:  cfg.SessionWindowDuration(),
		Now:     env.clock.Now,
	}))
	RegisterRoutes(e, h)
	env.e = e
	return env
}

func (env *testEnv) storage(sid string) session.Storage {
	env.mu.Lock()
	defer env.mu.Unlock()
	s, ok := env.stores[sid]
	if !ok {
		s = session.NewMemoryStorage()
		env.stores[sid] = s
	}
	return s
}

// session returns the persisted session of the test browser
func (env *testEnv) session() *session.Session {
	return session.New(env.storage(env.cookie.Value), session.WithClock(env.clock.Now))
}

func (env *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	if env.cookie != nil {
		req.AddCookie(env.cookie)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			env.cookie = c
		}
	}
	return rec
}

func (env *testEnv) get(path string) *httptest.ResponseRecorder {
	return env.serve(httptest.NewRequest(http.MethodGet, path, nil))
}

func (env *testEnv) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return env.serve(req)
}

func (env *testEnv) upload(path, filename string, content []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, _ := w.CreateFormFile("image", filename)
	_, _ = part.Write(content)
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return env.serve(req)
}

func (env *testEnv) login(t *testing.T) {
	t.Helper()
	env.get("/")
	rec := env.post("/", url.Values{"id": {testAdminID}, "password": {testAdminPW}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	assert.Equal(t, http.StatusSeeOther, rec.Code, "body: %s", rec.Body.String())
	assert.Equal(t, location, rec.Header().Get("Location"))
}

// assertInOrder checks that every needle appears in haystack in order
func assertInOrder(t *testing.T, haystack string, needles ...string) {
	t.Helper()
	last := -1
	for _, n := range needles {
		i := strings.Index(haystack, n)
		if !assert.Greater(t, i, last, "%q out of order in:\n%s", n, spew.Sdump(needles)) {
			return
		}
		last = i
	}
}

var pngImage = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")
