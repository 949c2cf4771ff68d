package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/gbnam453/nalbom-admin/internal/model"
)

// FakeAPI is an in-memory stand-in for the remote REST API
type FakeAPI struct {
	*httptest.Server

	mu        sync.Mutex
	nextID    int64
	failWith  int
	requests  []string
	notices   *collection[model.Notice]
	uploads   *collection[model.Upload]
	downloads *collection[model.Download]
	images    map[int64][]model.NoticeImage
}

type collection[T model.Record] struct {
	items map[int64]T
	setID func(T, int64) T
}

func newCollection[T model.Record](setID func(T, int64) T) *collection[T] {
	return &collection[T]{items: make(map[int64]T), setID: setID}
}

// NewFakeAPI starts the fake server. It is closed when the test ends.
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()
	f := &FakeAPI{
		notices:   newCollection(func(n model.Notice, id int64) model.Notice { n.ID = id; return n }),
		uploads:   newCollection(func(u model.Upload, id int64) model.Upload { u.ID = id; return u }),
		downloads: newCollection(func(d model.Download, id int64) model.Download { d.ID = id; return d }),
		images:    make(map[int64][]model.NoticeImage),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(f.record)

	registerCollection(e, f, "/api/notices", f.notices)
	registerCollection(e, f, "/api/uploads", f.uploads)
	registerCollection(e, f, "/api/downloads", f.downloads)

	e.GET("/api/notices/:id/images", f.listImages)
	e.POST("/api/notices/:id/images", f.uploadImage)
	e.DELETE("/api/notices/:id/images/:imageId", f.deleteImage)

	f.Server = httptest.NewServer(e)
	t.Cleanup(f.Server.Close)
	return f
}

// Fail makes every following request answer with status; 0 restores service
func (f *FakeAPI) Fail(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWith = status
}

// Requests returns "METHOD /path" for every request received so far
func (f *FakeAPI) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *FakeAPI) SeedNotice(n model.Notice) model.Notice {
	return seed(f, f.notices, n)
}

func (f *FakeAPI) SeedUpload(u model.Upload) model.Upload {
	return seed(f, f.uploads, u)
}

func (f *FakeAPI) SeedDownload(d model.Download) model.Download {
	return seed(f, f.downloads, d)
}

func (f *FakeAPI) Notices() []model.Notice     { return snapshot(f, f.notices) }
func (f *FakeAPI) Uploads() []model.Upload     { return snapshot(f, f.uploads) }
func (f *FakeAPI) Downloads() []model.Download { return snapshot(f, f.downloads) }

// Images returns the images stored for a notice
func (f *FakeAPI) Images(noticeID int64) []model.NoticeImage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.NoticeImage(nil), f.images[noticeID]...)
}

func (f *FakeAPI) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		f.mu.Lock()
		f.requests = append(f.requests, c.Request().Method+" "+c.Request().URL.Path)
		status := f.failWith
		f.mu.Unlock()
		if status != 0 {
			return c.String(status, "injected failure")
		}
		return next(c)
	}
}

// seed stores rec, keeping its id when set
func seed[T model.Record](f *FakeAPI, col *collection[T], rec T) T {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := rec.GetID()
	if id == 0 {
		f.nextID++
		id = f.nextID
	} else if id > f.nextID {
		f.nextID = id
	}
	rec = col.setID(rec, id)
	col.items[id] = rec
	return rec
}

// snapshot returns the records in ascending id order
func snapshot[T model.Record](f *FakeAPI, col *collection[T]) []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]T, 0, len(col.items))
	for _, rec := range col.items {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GetID() < out[j].GetID() })
	return out
}

func registerCollection[T model.Record](e *echo.Echo, f *FakeAPI, path string, col *collection[T]) {
	e.GET(path, func(c echo.Context) error {
		return c.JSON(http.StatusOK, snapshot(f, col))
	})
	e.POST(path, func(c echo.Context) error {
		var rec T
		if err := c.Bind(&rec); err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}
		if rec.GetID() != 0 {
			return c.String(http.StatusBadRequest, "id must not be sent on create")
		}
		return c.JSON(http.StatusCreated, seed(f, col, rec))
	})
	e.PUT(path+"/:id", func(c echo.Context) error {
		id, err := model.ParseID(c.Param("id"))
		if err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}
		var rec T
		if err := c.Bind(&rec); err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := col.items[id]; !ok {
			return c.String(http.StatusNotFound, "not found")
		}
		rec = col.setID(rec, id)
		col.items[id] = rec
		return c.JSON(http.StatusOK, rec)
	})
	e.DELETE(path+"/:id", func(c echo.Context) error {
		id, err := model.ParseID(c.Param("id"))
		if err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := col.items[id]; !ok {
			return c.String(http.StatusNotFound, "not found")
		}
		delete(col.items, id)
		return c.NoContent(http.StatusNoContent)
	})
}

func (f *FakeAPI) listImages(c echo.Context) error {
	id, err := model.ParseID(c.Param("id"))
	if err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, f.Images(id))
}

func (f *FakeAPI) uploadImage(c echo.Context) error {
	noticeID, err := model.ParseID(c.Param("id"))
	if err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return c.String(http.StatusBadRequest, "image field is required")
	}
	src, err := fh.Open()
	if err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}
	defer src.Close()
	size, err := io.Copy(io.Discard, src)
	if err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.notices.items[noticeID]; !ok {
		return c.String(http.StatusNotFound, "notice not found")
	}
	f.nextID++
	img := model.NoticeImage{
		ID:       f.nextID,
		NoticeID: noticeID,
		URL:      "/images/" + strconv.FormatInt(f.nextID, 10),
		Filename: fh.Filename,
		Size:     size,
	}
	f.images[noticeID] = append(f.images[noticeID], img)
	return c.JSON(http.StatusCreated, img)
}

func (f *FakeAPI) deleteImage(c echo.Context) error {
	noticeID, err := model.ParseID(c.Param("id"))
	if err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}
	imageID, err := model.ParseID(c.Param("imageId"))
	if err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	images := f.images[noticeID]
	for i, img := range images {
		if img.ID == imageID {
			f.images[noticeID] = append(images[:i], images[i+1:]...)
			return c.NoContent(http.StatusNoContent)
		}
	}
	return c.String(http.StatusNotFound, "not found")
}
