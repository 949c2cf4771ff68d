package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbnam453/nalbom-admin/internal/app"
	"github.com/gbnam453/nalbom-admin/internal/auth"
	"github.com/gbnam453/nalbom-admin/internal/config"
	"github.com/gbnam453/nalbom-admin/internal/model"
	"github.com/gbnam453/nalbom-admin/internal/testutil"
)

const (
	e2eAdminID = "admin"
	e2eAdminPW = "e2e-secret"
)

var pngImage = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

// console is a running admin console backed by a fake REST API
type console struct {
	baseURL string
	api     *testutil.FakeAPI
	client  *http.Client
	cfg     *config.Config
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func e2eConfig(t *testing.T, apiURL string) *config.Config {
	t.Helper()
	return &config.Config{
		Port:           freePort(t),
		APIBaseURL:     apiURL,
		AdminID:        e2eAdminID,
		AdminPassword:  e2eAdminPW,
		SessionWindow:  600,
		SQLitePath:     filepath.Join(t.TempDir(), "nalbom.db"),
		SweepInterval:  60,
		SweeperEnabled: false,
		DriveTemplate:  config.DriveTemplateUC,
		MaxImageSize:   1,
	}
}

// startApp runs the console until the test ends
func startApp(t *testing.T, cfg *config.Config) string {
	t.Helper()
	application, err := app.NewWithConfig(cfg)
	require.NoError(t, err)
	application.Start()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = application.Shutdown(ctx)
		application.Stop()
	})

	baseURL := fmt.Sprintf("http://localhost:%d", cfg.Port)
	require.True(t, waitForServer(baseURL, 5*time.Second), "server failed to start at %s", baseURL)
	return baseURL
}

func startConsole(t *testing.T) *console {
	t.Helper()
	fake := testutil.NewFakeAPI(t)
	cfg := e2eConfig(t, fake.URL)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &console{
		baseURL: startApp(t, cfg),
		api:     fake,
		client:  &http.Client{Jar: jar, Timeout: 10 * time.Second},
		cfg:     cfg,
	}
}

// waitForServer waits for the server to be ready
func waitForServer(url string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			return resp.StatusCode == http.StatusOK
		}
		time.Sleep(50 * time.Millisecond)
	}
	return false
}

// page follows redirects and returns the final path and body
func (c *console) page(t *testing.T, resp *http.Response, err error) (string, string) {
	t.Helper()
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.Request.URL.Path, string(body)
}

func (c *console) get(t *testing.T, path string) (string, string) {
	t.Helper()
	resp, err := c.client.Get(c.baseURL + path)
	return c.page(t, resp, err)
}

func (c *console) post(t *testing.T, path string, form url.Values) (string, string) {
	t.Helper()
	resp, err := c.client.PostForm(c.baseURL+path, form)
	return c.page(t, resp, err)
}

func (c *console) login(t *testing.T) {
	t.Helper()
	path, _ := c.post(t, "/", url.Values{"id": {e2eAdminID}, "password": {e2eAdminPW}})
	require.Equal(t, "/dashboard", path)
}

func TestLoginFlow(t *testing.T) {
	c := startConsole(t)

	path, body := c.get(t, "/dashboard")
	assert.Equal(t, "/", path)
	assert.Contains(t, body, `name="password"`)

	path, body = c.post(t, "/", url.Values{"id": {e2eAdminID}, "password": {"wrong"}})
	assert.Equal(t, "/", path)
	assert.Contains(t, body, auth.LoginErrorMessage)

	path, body = c.post(t, "/", url.Values{"id": {e2eAdminID}, "password": {e2eAdminPW}})
	assert.Equal(t, "/dashboard", path)
	for _, href := range []string{"/notices", "/uploads", "/downloads", "/link"} {
		assert.Contains(t, body, `href="`+href+`"`)
	}
	assert.Regexp(t, `id="countdown"[^>]*>(10:00|09:5\d)<`, body)

	path, _ = c.get(t, "/")
	assert.Equal(t, "/dashboard", path, "a logged-in browser skips the login form")

	path, _ = c.post(t, "/logout", nil)
	assert.Equal(t, "/", path)
	path, _ = c.get(t, "/notices")
	assert.Equal(t, "/", path)
}

func TestNoticeLifecycle(t *testing.T) {
	c := startConsole(t)
	c.login(t)

	path, body := c.post(t, "/notices", url.Values{
		"title":   {"봄학기 개강"},
		"content": {"3월 4일 개강합니다."},
		"region":  {"대전"},
	})
	assert.Equal(t, "/notices", path)
	assert.Contains(t, body, "봄학기 개강")

	notices := c.api.Notices()
	require.Len(t, notices, 1)
	id := notices[0].ID
	noticePath := fmt.Sprintf("/notices/%d", id)

	var form bytes.Buffer
	w := multipart.NewWriter(&form)
	part, err := w.CreateFormFile("image", "poster.png")
	require.NoError(t, err)
	_, _ = part.Write(pngImage)
	require.NoError(t, w.Close())

	resp, err := c.client.Post(c.baseURL+noticePath+"/images", w.FormDataContentType(), &form)
	path, body = c.page(t, resp, err)
	assert.Equal(t, noticePath, path)
	assert.Contains(t, body, "poster.png")
	require.Len(t, c.api.Images(id), 1)

	path, _ = c.post(t, noticePath, url.Values{"title": {"봄학기 개강 안내"}, "content": {"변경"}, "region": {"전체"}})
	assert.Equal(t, noticePath, path)
	assert.Equal(t, "봄학기 개강 안내", c.api.Notices()[0].Title)

	path, _ = c.post(t, noticePath+"/delete", nil)
	assert.Equal(t, "/notices", path)
	assert.Empty(t, c.api.Notices())
}

func TestValidationAlertKeepsInput(t *testing.T) {
	c := startConsole(t)
	c.login(t)

	resp, err := c.client.PostForm(c.baseURL+"/downloads", url.Values{"title": {"교안"}})
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(body), "제목과 링크를 입력하세요.")
	assert.Contains(t, string(body), `value="교안"`)
	assert.Empty(t, c.api.Downloads())
}

func TestLinkConversion(t *testing.T) {
	c := startConsole(t)
	c.login(t)

	_, body := c.post(t, "/link", url.Values{"url": {"https://drive.google.com/file/d/FILE123/view?usp=sharing"}})
	assert.Contains(t, body, "https://drive.google.com/uc?export=download&amp;id=FILE123")

	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/link?url="+url.QueryEscape("https://drive.google.com/file/d/FILE123/view"), nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	_, body = c.page(t, resp, err)
	assert.JSONEq(t, `{"original":"https://drive.google.com/file/d/FILE123/view","converted":"https://drive.google.com/uc?export=download&id=FILE123"}`, body)
}

func TestCountdownStream(t *testing.T) {
	c := startConsole(t)
	c.login(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/session/countdown", nil)
	require.NoError(t, err)
	resp, err := c.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	r := bufio.NewReader(resp.Body)
	event, err := r.ReadString('\n')
	require.NoError(t, err)
	data, err := r.ReadString('\n')
	require.NoError(t, err)

	assert.Equal(t, "event: tick\n", event)
	assert.Regexp(t, regexp.MustCompile(`^data: (10:00|09:5\d)\n$`), data)
}

func TestSessionSurvivesRestart(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	fake.SeedNotice(model.Notice{Title: "유지되는 공지", Content: "c", Region: model.RegionAll})
	cfg := e2eConfig(t, fake.URL)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar, Timeout: 10 * time.Second}

	first := &console{baseURL: startApp(t, cfg), api: fake, client: client, cfg: cfg}
	first.login(t)

	// Same database and cookie jar, new process
	next := *cfg
	next.Port = freePort(t)
	second := &console{baseURL: startApp(t, &next), api: fake, client: client, cfg: &next}

	path, body := second.get(t, "/notices")
	assert.Equal(t, "/notices", path)
	assert.Contains(t, body, "유지되는 공지")
}

func TestConcurrentNoticeCreation(t *testing.T) {
	c := startConsole(t)
	c.login(t)

	const numNotices = 5
	var wg sync.WaitGroup
	errs := make(chan error, numNotices)
	for i := range numNotices {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			resp, err := c.client.PostForm(c.baseURL+"/notices", url.Values{
				"title":   {fmt.Sprintf("동시 공지 %d", id)},
				"content": {"c"},
			})
			if err != nil {
				errs <- err
				return
			}
			resp.Body.Close()
			if resp.Request.URL.Path != "/notices" {
				errs <- fmt.Errorf("notice %d landed on %s", id, resp.Request.URL.Path)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}

	notices := c.api.Notices()
	assert.Len(t, notices, numNotices)
	for _, n := range notices {
		assert.True(t, strings.HasPrefix(n.Title, "동시 공지"))
		assert.Equal(t, model.RegionAll, n.Region)
	}
}
