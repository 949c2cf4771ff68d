package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/gbnam453/nalbom-admin/internal/api"
	"github.com/gbnam453/nalbom-admin/internal/auth"
	"github.com/gbnam453/nalbom-admin/internal/config"
	"github.com/gbnam453/nalbom-admin/internal/drive"
	"github.com/gbnam453/nalbom-admin/internal/middleware"
	"github.com/gbnam453/nalbom-admin/internal/model"
	"github.com/gbnam453/nalbom-admin/internal/session"
)

// Handler handles HTTP requests
type Handler struct {
	cfg       *config.Config
	api       *api.Client
	creds     *auth.Credentials
	countdown *session.Countdown
	converter *drive.Converter
}

// NewHandler creates a new handler
func NewHandler(cfg *config.Config, client *api.Client, creds *auth.Credentials, countdown *session.Countdown, converter *drive.Converter) *Handler {
	return &Handler{
		cfg:       cfg,
		api:       client,
		creds:     creds,
		countdown: countdown,
		converter: converter,
	}
}

// render writes a page with the given status code
func render(c echo.Context, status int, page templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return page.Render(c.Request().Context(), c.Response())
}

// recordID parses the :id route parameter
func recordID(c echo.Context, name string) (int64, error) {
	id, err := model.ParseID(c.Param(name))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, "record not found")
	}
	return id, nil
}

// alertFor returns the blocking-dialog message for a validation error, or
// "" for any other error
func alertFor(err error) string {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return verr.Alert
	}
	return ""
}

// remaining is the countdown value computed by RequireAdmin
func remaining(c echo.Context) int {
	return middleware.RemainingFrom(c)
}

func logAPIError(action string, err error) {
	log.Printf("Error: failed to %s: %v", action, err)
}
