package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/gbnam453/nalbom-admin/internal/middleware"
)

// ImageUploadRoute accepts notice images. Its body is capped by the handler
// rather than by the global body limit.
const ImageUploadRoute = "/notices/:id/images"

// RegisterRoutes registers the console routes. Browser session middleware
// must already be installed on e.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	requireAdmin := middleware.RequireAdmin()

	e.GET("/", h.HandleLoginPage)
	e.POST("/", h.HandleLogin)
	e.POST("/logout", h.HandleLogout)
	e.GET("/session/countdown", h.HandleCountdown)

	e.GET("/dashboard", h.HandleDashboard, requireAdmin)

	e.GET("/notices", h.HandleNotices, requireAdmin)
	e.POST("/notices", h.HandleNoticeCreate, requireAdmin)
	e.GET("/notices/:id", h.HandleNoticeView, requireAdmin)
	e.POST("/notices/:id", h.HandleNoticeUpdate, requireAdmin)
	e.POST("/notices/:id/delete", h.HandleNoticeDelete, requireAdmin)
	e.POST(ImageUploadRoute, h.HandleNoticeImageUpload, requireAdmin)
	e.POST("/notices/:id/images/:imageId/delete", h.HandleNoticeImageDelete, requireAdmin)

	e.GET("/uploads", h.HandleUploads, requireAdmin)
	e.POST("/uploads", h.HandleUploadCreate, requireAdmin)
	e.GET("/uploads/:id", h.HandleUploadView, requireAdmin)
	e.POST("/uploads/:id", h.HandleUploadUpdate, requireAdmin)
	e.POST("/uploads/:id/delete", h.HandleUploadDelete, requireAdmin)

	e.GET("/downloads", h.HandleDownloads, requireAdmin)
	e.POST("/downloads", h.HandleDownloadCreate, requireAdmin)
	e.GET("/downloads/:id", h.HandleDownloadView, requireAdmin)
	e.POST("/downloads/:id", h.HandleDownloadUpdate, requireAdmin)
	e.POST("/downloads/:id/delete", h.HandleDownloadDelete, requireAdmin)

	e.GET("/link", h.HandleLink, requireAdmin)
	e.POST("/link", h.HandleLinkConvert, requireAdmin)
}
