package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gbnam453/nalbom-admin/internal/api"
	"github.com/gbnam453/nalbom-admin/internal/model"
	"github.com/gbnam453/nalbom-admin/templates"
)

func uploadFromForm(c echo.Context) model.Upload {
	return model.Upload{
		Title:  c.FormValue("title"),
		Detail: c.FormValue("detail"),
		Type:   model.UploadType(c.FormValue("type")),
		Link:   c.FormValue("link"),
	}.Normalize()
}

// HandleUploads lists document-submission links
func (h *Handler) HandleUploads(c echo.Context) error {
	return h.renderUploads(c, http.StatusOK, model.Upload{}, "")
}

func (h *Handler) renderUploads(c echo.Context, status int, form model.Upload, alert string) error {
	uploads, err := h.api.Uploads().List(c.Request().Context())
	if err != nil {
		logAPIError("list uploads", err)
	}
	return render(c, status, templates.UploadsPage(templates.UploadsView{
		Remaining: remaining(c),
		Uploads:   uploads,
		Form:      form,
		Alert:     alert,
	}))
}

func (h *Handler) HandleUploadCreate(c echo.Context) error {
	upload := uploadFromForm(c)
	if _, err := h.api.Uploads().Create(c.Request().Context(), upload); err != nil {
		if alert := alertFor(err); alert != "" {
			return h.renderUploads(c, http.StatusUnprocessableEntity, upload, alert)
		}
		logAPIError("create upload", err)
	}
	return c.Redirect(http.StatusSeeOther, "/uploads")
}

func (h *Handler) HandleUploadView(c echo.Context) error {
	id, err := recordID(c, "id")
	if err != nil {
		return err
	}
	return h.renderUpload(c, http.StatusOK, id, nil, "")
}

func (h *Handler) renderUpload(c echo.Context, status int, id int64, edited *model.Upload, alert string) error {
	upload, err := h.api.Uploads().Find(c.Request().Context(), id)
	if err != nil {
		if !errors.Is(err, api.ErrNotFound) {
			logAPIError("fetch upload", err)
		}
		return c.Redirect(http.StatusSeeOther, "/uploads")
	}
	if edited != nil {
		upload = *edited
	}
	return render(c, status, templates.UploadPage(templates.UploadView{
		Remaining: remaining(c),
		Upload:    upload,
		Alert:     alert,
	}))
}

func (h *Handler) HandleUploadUpdate(c echo.Context) error {
	id, err := recordID(c, "id")
	if err != nil {
		return err
	}

	upload := uploadFromForm(c)
	upload.ID = id
	if _, err := h.api.Uploads().Update(c.Request().Context(), id, upload); err != nil {
		if alert := alertFor(err); alert != "" {
			return h.renderUpload(c, http.StatusUnprocessableEntity, id, &upload, alert)
		}
		logAPIError("update upload", err)
		return c.Redirect(http.StatusSeeOther, "/uploads")
	}
	return c.Redirect(http.StatusSeeOther, templates.UploadPath(id))
}

func (h *Handler) HandleUploadDelete(c echo.Context) error {
	id, err := recordID(c, "id")
	if err != nil {
		return err
	}
	if err := h.api.Uploads().Delete(c.Request().Context(), id); err != nil {
		logAPIError("delete upload", err)
	}
	return c.Redirect(http.StatusSeeOther, "/uploads")
}
