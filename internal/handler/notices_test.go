package handler

import (
	"bytes"
	"net/http"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbnam453/nalbom-admin/internal/model"
	"github.com/gbnam453/nalbom-admin/templates"
)

func TestNoticesListNewestFirst(t *testing.T) {
	env := setupTestEnvironment(t)
	env.api.SeedNotice(model.Notice{ID: 3, Title: "셋", Content: "c", Region: model.RegionAll})
	env.api.SeedNotice(model.Notice{ID: 1, Title: "하나", Content: "c", Region: model.RegionAll})
	env.api.SeedNotice(model.Notice{ID: 2, Title: "둘", Content: "c", Region: model.RegionAll})
	env.login(t)

	rec := env.get("/notices")
	require.Equal(t, http.StatusOK, rec.Code)
	assertInOrder(t, rec.Body.String(), `href="/notices/3"`, `href="/notices/2"`, `href="/notices/1"`)
	assert.NotContains(t, rec.Body.String(), templates.EmptyState)
}

func TestNoticesListFailureShowsEmptyState(t *testing.T) {
	env := setupTestEnvironment(t)
	env.api.SeedNotice(model.Notice{Title: "t", Content: "c", Region: model.RegionAll})
	env.login(t)
	env.api.Fail(http.StatusInternalServerError)

	rec := env.get("/notices")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), templates.EmptyState)
}

func TestNoticeCreate(t *testing.T) {
	env := setupTestEnvironment(t)
	env.login(t)

	rec := env.post("/notices", url.Values{
		"title":   {"  개강 안내  "},
		"content": {"3월 4일 개강합니다"},
		"region":  {"아산"},
	})
	assertRedirect(t, rec, "/notices")

	notices := env.api.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, "개강 안내", notices[0].Title)
	assert.Equal(t, model.RegionAsan, notices[0].Region)
}

func TestNoticeCreateDefaultsRegion(t *testing.T) {
	env := setupTestEnvironment(t)
	env.login(t)

	env.post("/notices", url.Values{"title": {"t"}, "content": {"c"}})
	require.Len(t, env.api.Notices(), 1)
	assert.Equal(t, model.RegionAll, env.api.Notices()[0].Region)
}

func TestNoticeCreateRequiresTitleAndContent(t *testing.T) {
	env := setupTestEnvironment(t)
	env.login(t)

	rec := env.post("/notices", url.Values{"title": {"제목만"}, "content": {"   "}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-message="제목과 내용을 입력하세요."`)
	assert.Contains(t, rec.Body.String(), `value="제목만"`)

	assert.Empty(t, env.api.Notices())
	assert.NotContains(t, env.api.Requests(), "POST /api/notices")
}

func TestNoticeCreateAPIFailure(t *testing.T) {
	env := setupTestEnvironment(t)
	env.login(t)
	env.api.Fail(http.StatusBadGateway)

	rec := env.post("/notices", url.Values{"title": {"t"}, "content": {"c"}})
	assertRedirect(t, rec, "/notices")
}

func TestNoticeView(t *testing.T) {
	env := setupTestEnvironment(t)
	n := env.api.SeedNotice(model.Notice{Title: "봄 소식", Content: "내용", Region: model.RegionSeosan})
	env.login(t)

	rec := env.get(templates.NoticePath(n.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "봄 소식")
	assert.Contains(t, rec.Body.String(), `<option value="서산" selected>`)
	assert.Contains(t, rec.Body.String(), templates.EmptyState, "no images yet")
}

func TestNoticeViewUnknownID(t *testing.T) {
	env := setupTestEnvironment(t)
	env.login(t)

	assertRedirect(t, env.get("/notices/99"), "/notices")
	assert.Equal(t, http.StatusNotFound, env.get("/notices/abc").Code)
	assert.Equal(t, http.StatusNotFound, env.get("/notices/0").Code)
}

func TestNoticeUpdate(t *testing.T) {
	env := setupTestEnvironment(t)
	n := env.api.SeedNotice(model.Notice{Title: "old", Content: "old", Region: model.RegionAll})
	env.login(t)

	rec := env.post(templates.NoticePath(n.ID), url.Values{"title": {"new"}, "content": {"body"}, "region": {"대전"}})
	assertRedirect(t, rec, templates.NoticePath(n.ID))

	got := env.api.Notices()[0]
	assert.Equal(t, model.Notice{ID: n.ID, Title: "new", Content: "body", Region: model.RegionDaejeon}, got)
}

func TestNoticeUpdateValidation(t *testing.T) {
	env := setupTestEnvironment(t)
	n := env.api.SeedNotice(model.Notice{Title: "old", Content: "old", Region: model.RegionAll})
	env.login(t)

	rec := env.post(templates.NoticePath(n.ID), url.Values{"title": {""}, "content": {"edited"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "edited", "rejected input is kept in the form")
	assert.Equal(t, "old", env.api.Notices()[0].Content)
}

func TestNoticeUpdateInvalidRegion(t *testing.T) {
	env := setupTestEnvironment(t)
	n := env.api.SeedNotice(model.Notice{Title: "t", Content: "c", Region: model.RegionAll})
	env.login(t)

	rec := env.post(templates.NoticePath(n.ID), url.Values{"title": {"t"}, "content": {"c"}, "region": {"부산"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "선택한 값이 올바르지 않습니다: region")
}

func TestNoticeDelete(t *testing.T) {
	env := setupTestEnvironment(t)
	n := env.api.SeedNotice(model.Notice{Title: "t", Content: "c", Region: model.RegionAll})
	env.login(t)

	assertRedirect(t, env.post(templates.NoticePath(n.ID)+"/delete", nil), "/notices")
	assert.Empty(t, env.api.Notices())

	// Deleting again fails at the API and is only logged.
	assertRedirect(t, env.post(templates.NoticePath(n.ID)+"/delete", nil), "/notices")
}

func TestNoticeImageUpload(t *testing.T) {
	env := setupTestEnvironment(t)
	n := env.api.SeedNotice(model.Notice{Title: "t", Content: "c", Region: model.RegionAll})
	env.login(t)

	rec := env.upload(templates.NoticePath(n.ID)+"/images", "photo.png", pngImage)
	assertRedirect(t, rec, templates.NoticePath(n.ID))

	images := env.api.Images(n.ID)
	require.Len(t, images, 1)
	assert.Equal(t, "photo.png", images[0].Filename)
	assert.Equal(t, int64(len(pngImage)), images[0].Size)

	rec = env.get(templates.NoticePath(n.ID))
	assert.Contains(t, rec.Body.String(), "photo.png")
}

func TestNoticeImageUploadRejectsNonImage(t *testing.T) {
	env := setupTestEnvironment(t)
	n := env.api.SeedNotice(model.Notice{Title: "t", Content: "c", Region: model.RegionAll})
	env.login(t)

	rec := env.upload(templates.NoticePath(n.ID)+"/images", "fake.png", []byte("just some text, not an image"))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Contains(t, rec.Body.String(), imageTypeAlert)
	assert.Empty(t, env.api.Images(n.ID))
}

func TestNoticeImageUploadTooLarge(t *testing.T) {
	env := setupTestEnvironment(t)
	n := env.api.SeedNotice(model.Notice{Title: "t", Content: "c", Region: model.RegionAll})
	env.login(t)

	big := append(append([]byte{}, pngImage...), bytes.Repeat([]byte{0}, 1<<20)...)
	rec := env.upload(templates.NoticePath(n.ID)+"/images", "big.png", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-message="`+imageSizeAlert(1<<20)+`"`)
	assert.Empty(t, env.api.Images(n.ID))
}

func TestNoticeImageUploadBeyondReadLimit(t *testing.T) {
	env := setupTestEnvironment(t)
	n := env.api.SeedNotice(model.Notice{Title: "t", Content: "c", Region: model.RegionAll})
	env.login(t)

	// larger than the image limit plus the multipart allowance, so the
	// body reader gives up before the form is parsed
	huge := append(append([]byte{}, pngImage...), bytes.Repeat([]byte{0}, 3<<20)...)
	rec := env.upload(templates.NoticePath(n.ID)+"/images", "huge.png", huge)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/html")
	assert.Contains(t, rec.Body.String(), `data-message="`+imageSizeAlert(1<<20)+`"`)
	assert.Empty(t, env.api.Images(n.ID))
}

func TestNoticeImageUploadMissingFile(t *testing.T) {
	env := setupTestEnvironment(t)
	n := env.api.SeedNotice(model.Notice{Title: "t", Content: "c", Region: model.RegionAll})
	env.login(t)

	rec := env.post(templates.NoticePath(n.ID)+"/images", url.Values{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), imageMissingAlert)
}

func TestNoticeImageDelete(t *testing.T) {
	env := setupTestEnvironment(t)
	n := env.api.SeedNotice(model.Notice{Title: "t", Content: "c", Region: model.RegionAll})
	env.login(t)

	env.upload(templates.NoticePath(n.ID)+"/images", "photo.png", pngImage)
	images := env.api.Images(n.ID)
	require.Len(t, images, 1)

	rec := env.post(templates.NoticeImagePath(n.ID, images[0].ID)+"/delete", nil)
	assertRedirect(t, rec, templates.NoticePath(n.ID))
	assert.Empty(t, env.api.Images(n.ID))
}
