package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/gbnam453/nalbom-admin/internal/session"
)

const (
	// SessionCookie holds the browser session id
	SessionCookie = "nalbom_sid"

	sessionKey   = "session"
	remainingKey = "remaining"
)

// StorageFactory returns the persisted key-value state of one browser
type StorageFactory func(sessionID string) session.Storage

type BrowserSessionConfig struct {
	Storage StorageFactory
	Window  time.Duration
	// Secure marks the cookie HTTPS-only
	Secure bool
	// Now replaces time.Now for the session clock
	Now func() time.Time
}

// BrowserSession identifies the browser by cookie and attaches its
// session.Session to the request context
func BrowserSession(cfg BrowserSessionConfig) echo.MiddlewareFunc {
	opts := []session.Option{session.WithWindow(cfg.Window)}
	if cfg.Now != nil {
		opts = append(opts, session.WithClock(cfg.Now))
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := browserID(c)
			if sid == "" {
				sid = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     SessionCookie,
					Value:    sid,
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			c.Set(sessionKey, session.New(cfg.Storage(sid), opts...))
			return next(c)
		}
	}
}

// browserID returns the cookie value when it is a well-formed UUID
func browserID(c echo.Context) string {
	cookie, err := c.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return ""
	}
	return id.String()
}

// SessionFrom returns the session attached by BrowserSession
func SessionFrom(c echo.Context) *session.Session {
	sess, _ := c.Get(sessionKey).(*session.Session)
	return sess
}

// RemainingFrom returns the seconds left that RequireAdmin computed
func RemainingFrom(c echo.Context) int {
	remaining, _ := c.Get(remainingKey).(int)
	return remaining
}

// RequireAdmin guards protected pages. It sends logged-out browsers to the
// login page, establishes the logout deadline on first mount and logs out
// when the deadline has passed.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := SessionFrom(c)
			if sess == nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "session middleware not installed")
			}
			ctx := c.Request().Context()

			if !sess.IsAdmin(ctx) {
				return c.Redirect(http.StatusSeeOther, "/")
			}

			if _, err := sess.Mount(ctx); err != nil {
				log.Printf("Error mounting session: %v", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "session storage unavailable")
			}

			remaining, expired, err := sess.Check(ctx)
			if err != nil {
				log.Printf("Error checking session: %v", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "session storage unavailable")
			}
			if expired {
				return c.Redirect(http.StatusSeeOther, "/")
			}

			c.Set(remainingKey, remaining)
			return next(c)
		}
	}
}
