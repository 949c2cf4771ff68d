package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gbnam453/nalbom-admin/internal/api"
	"github.com/gbnam453/nalbom-admin/internal/model"
	"github.com/gbnam453/nalbom-admin/templates"
)

func downloadFromForm(c echo.Context) model.Download {
	return model.Download{
		Title:    c.FormValue("title"),
		Region:   model.Region(c.FormValue("region")),
		Category: model.Category(c.FormValue("category")),
		Type:     model.MaterialType(c.FormValue("type")),
		Link:     c.FormValue("link"),
	}.Normalize()
}

// HandleDownloads lists class materials
func (h *Handler) HandleDownloads(c echo.Context) error {
	return h.renderDownloads(c, http.StatusOK, model.Download{}, "")
}

func (h *Handler) renderDownloads(c echo.Context, status int, form model.Download, alert string) error {
	downloads, err := h.api.Downloads().List(c.Request().Context())
	if err != nil {
		logAPIError("list downloads", err)
	}
	return render(c, status, templates.DownloadsPage(templates.DownloadsView{
		Remaining: remaining(c),
		Downloads: downloads,
		Form:      form,
		Alert:     alert,
	}))
}

func (h *Handler) HandleDownloadCreate(c echo.Context) error {
	download := downloadFromForm(c)
	if _, err := h.api.Downloads().Create(c.Request().Context(), download); err != nil {
		if alert := alertFor(err); alert != "" {
			return h.renderDownloads(c, http.StatusUnprocessableEntity, download, alert)
		}
		logAPIError("create download", err)
	}
	return c.Redirect(http.StatusSeeOther, "/downloads")
}

func (h *Handler) HandleDownloadView(c echo.Context) error {
	id, err := recordID(c, "id")
	if err != nil {
		return err
	}
	return h.renderDownload(c, http.StatusOK, id, nil, "")
}

func (h *Handler) renderDownload(c echo.Context, status int, id int64, edited *model.Download, alert string) error {
	download, err := h.api.Downloads().Find(c.Request().Context(), id)
	if err != nil {
		if !errors.Is(err, api.ErrNotFound) {
			logAPIError("fetch download", err)
		}
		return c.Redirect(http.StatusSeeOther, "/downloads")
	}
	if edited != nil {
		download = *edited
	}
	return render(c, status, templates.DownloadPage(templates.DownloadView{
		Remaining: remaining(c),
		Download:  download,
		Alert:     alert,
	}))
}

func (h *Handler) HandleDownloadUpdate(c echo.Context) error {
	id, err := recordID(c, "id")
	if err != nil {
		return err
	}

	download := downloadFromForm(c)
	download.ID = id
	if _, err := h.api.Downloads().Update(c.Request().Context(), id, download); err != nil {
		if alert := alertFor(err); alert != "" {
			return h.renderDownload(c, http.StatusUnprocessableEntity, id, &download, alert)
		}
		logAPIError("update download", err)
		return c.Redirect(http.StatusSeeOther, "/downloads")
	}
	return c.Redirect(http.StatusSeeOther, templates.DownloadPath(id))
}

func (h *Handler) HandleDownloadDelete(c echo.Context) error {
	id, err := recordID(c, "id")
	if err != nil {
		return err
	}
	if err := h.api.Downloads().Delete(c.Request().Context(), id); err != nil {
		logAPIError("delete download", err)
	}
	return c.Redirect(http.StatusSeeOther, "/downloads")
}
