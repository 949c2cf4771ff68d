package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gbnam453/nalbom-admin/internal/middleware"
)

// loginPath is where an expired page navigates to
const loginPath = "/"

// HandleCountdown streams the remaining session time as server-sent events.
// Each tick is a "tick" event with mm:ss data. Expiry sends one "expired"
// event carrying the login path and ends the stream.
func (h *Handler) HandleCountdown(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	ctx := c.Request().Context()

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if !sess.IsAdmin(ctx) {
		return writeEvent(w, "expired", loginPath)
	}
	w.Flush()

	ticks, cancel := h.countdown.Subscribe(ctx, sess)
	defer cancel()

	for tick := range ticks {
		if tick.Expired {
			return writeEvent(w, "expired", loginPath)
		}
		if err := writeEvent(w, "tick", tick.String()); err != nil {
			return nil
		}
	}
	return nil
}

func writeEvent(w *echo.Response, event, data string) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	w.Flush()
	return nil
}
