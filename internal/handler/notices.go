package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gbnam453/nalbom-admin/internal/api"
	"github.com/gbnam453/nalbom-admin/internal/model"
	"github.com/gbnam453/nalbom-admin/templates"
)

func noticeFromForm(c echo.Context) model.Notice {
	return model.Notice{
		Title:   c.FormValue("title"),
		Content: c.FormValue("content"),
		Region:  model.Region(c.FormValue("region")),
	}.Normalize()
}

// HandleNotices lists notices, newest first
func (h *Handler) HandleNotices(c echo.Context) error {
	return h.renderNotices(c, http.StatusOK, model.Notice{}, "")
}

func (h *Handler) renderNotices(c echo.Context, status int, form model.Notice, alert string) error {
	notices, err := h.api.Notices().List(c.Request().Context())
	if err != nil {
		logAPIError("list notices", err)
	}
	return render(c, status, templates.NoticesPage(templates.NoticesView{
		Remaining: remaining(c),
		Notices:   notices,
		Form:      form,
		Alert:     alert,
	}))
}

// HandleNoticeCreate adds a notice
func (h *Handler) HandleNoticeCreate(c echo.Context) error {
	notice := noticeFromForm(c)
	if _, err := h.api.Notices().Create(c.Request().Context(), notice); err != nil {
		if alert := alertFor(err); alert != "" {
			return h.renderNotices(c, http.StatusUnprocessableEntity, notice, alert)
		}
		logAPIError("create notice", err)
	}
	return c.Redirect(http.StatusSeeOther, "/notices")
}

// HandleNoticeView shows one notice with its images and edit form
func (h *Handler) HandleNoticeView(c echo.Context) error {
	id, err := recordID(c, "id")
	if err != nil {
		return err
	}
	return h.renderNotice(c, http.StatusOK, id, nil, "")
}

// renderNotice fetches the notice and its images. edited replaces the
// fetched notice after a rejected update.
func (h *Handler) renderNotice(c echo.Context, status int, id int64, edited *model.Notice, alert string) error {
	ctx := c.Request().Context()

	notice, err := h.api.Notices().Find(ctx, id)
	if err != nil {
		if !errors.Is(err, api.ErrNotFound) {
			logAPIError("fetch notice", err)
		}
		return c.Redirect(http.StatusSeeOther, "/notices")
	}
	if edited != nil {
		notice = *edited
	}

	images, err := h.api.ListImages(ctx, id)
	if err != nil {
		logAPIError("list notice images", err)
	}

	return render(c, status, templates.NoticePage(templates.NoticeView{
		Remaining: remaining(c),
		Notice:    notice,
		Images:    images,
		Alert:     alert,
	}))
}

// HandleNoticeUpdate saves an edited notice
func (h *Handler) HandleNoticeUpdate(c echo.Context) error {
	id, err := recordID(c, "id")
	if err != nil {
		return err
	}

	notice := noticeFromForm(c)
	notice.ID = id
	if _, err := h.api.Notices().Update(c.Request().Context(), id, notice); err != nil {
		if alert := alertFor(err); alert != "" {
			return h.renderNotice(c, http.StatusUnprocessableEntity, id, &notice, alert)
		}
		logAPIError("update notice", err)
		return c.Redirect(http.StatusSeeOther, "/notices")
	}
	return c.Redirect(http.StatusSeeOther, templates.NoticePath(id))
}

// HandleNoticeDelete removes a notice
func (h *Handler) HandleNoticeDelete(c echo.Context) error {
	id, err := recordID(c, "id")
	if err != nil {
		return err
	}
	if err := h.api.Notices().Delete(c.Request().Context(), id); err != nil {
		logAPIError("delete notice", err)
	}
	return c.Redirect(http.StatusSeeOther, "/notices")
}
