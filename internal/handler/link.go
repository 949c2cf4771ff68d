package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gbnam453/nalbom-admin/internal/drive"
	"github.com/gbnam453/nalbom-admin/internal/session"
	"github.com/gbnam453/nalbom-admin/templates"
)

type linkResponse struct {
	Original  string `json:"original"`
	Converted string `json:"converted"`
}

// HandleLink converts reactively. No match leaves the result empty.
func (h *Handler) HandleLink(c echo.Context) error {
	link := h.converter.NewLink(c.QueryParam("url"))

	if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) {
		return c.JSON(http.StatusOK, linkResponse{Original: link.Original, Converted: link.Converted})
	}
	return h.renderLink(c, http.StatusOK, link, "")
}

// HandleLinkConvert converts on explicit request and alerts on input
// without a /d/<id> segment
func (h *Handler) HandleLinkConvert(c echo.Context) error {
	original := c.FormValue("url")

	converted, err := h.converter.ConvertStrict(original)
	if err != nil {
		if !errors.Is(err, drive.ErrNotShareLink) {
			log.Printf("Error converting link: %v", err)
		}
		return h.renderLink(c, http.StatusUnprocessableEntity, drive.Link{Original: original}, drive.ValidationAlert)
	}
	return h.renderLink(c, http.StatusOK, drive.Link{Original: original, Converted: converted}, "")
}

func (h *Handler) renderLink(c echo.Context, status int, link drive.Link, alert string) error {
	return render(c, status, templates.LinkPage(templates.LinkView{
		Remaining: remaining(c),
		Link:      link,
		Alert:     alert,
		CopyTTL:   session.CopyConfirmationTTL,
	}))
}
