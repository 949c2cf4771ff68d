package handler

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gbnam453/nalbom-admin/internal/auth"
	"github.com/gbnam453/nalbom-admin/internal/middleware"
	"github.com/gbnam453/nalbom-admin/internal/session"
	"github.com/gbnam453/nalbom-admin/templates"
)

// HandleLoginPage serves the login form, or the dashboard for a browser
// that is still logged in
func (h *Handler) HandleLoginPage(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	ctx := c.Request().Context()

	if sess.IsAdmin(ctx) {
		if _, err := sess.Mount(ctx); err != nil {
			log.Printf("Error mounting session: %v", err)
		} else if _, expired, err := sess.Check(ctx); err == nil && !expired {
			return c.Redirect(http.StatusSeeOther, "/dashboard")
		}
	}

	flash, ttl, err := sess.Flash(ctx)
	if err != nil {
		log.Printf("Error reading flash: %v", err)
	}
	return render(c, http.StatusOK, templates.LoginPage(flash, ttl))
}

// HandleLogin checks the credential and starts a fresh session window
func (h *Handler) HandleLogin(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	ctx := c.Request().Context()

	if err := h.creds.Verify(c.FormValue("id"), c.FormValue("password")); err != nil {
		log.Printf("Failed admin login from %s", c.RealIP())
		if err := sess.SetFlash(ctx, auth.LoginErrorMessage, session.LoginErrorTTL); err != nil {
			log.Printf("Error setting flash: %v", err)
		}
		return c.Redirect(http.StatusSeeOther, "/")
	}

	if err := sess.Login(ctx); err != nil {
		log.Printf("Error starting session: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "session storage unavailable")
	}
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

// HandleLogout clears the session and returns to the login page
func (h *Handler) HandleLogout(c echo.Context) error {
	if err := middleware.SessionFrom(c).Clear(c.Request().Context()); err != nil {
		log.Printf("Error clearing session: %v", err)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// HandleDashboard serves the dashboard cards
func (h *Handler) HandleDashboard(c echo.Context) error {
	return render(c, http.StatusOK, templates.DashboardPage(remaining(c)))
}
