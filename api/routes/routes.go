package routes

import (
	"net/http"
	"time"

	"tgbridge/api/handler"
	"tgbridge/api/middleware"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type Router struct {
	Echo           *echo.Echo
	Auth           *handler.AuthHandler
	Messages       *handler.MessageHandler
	Files          *handler.FileHandler
	AuthMiddleware middleware.AuthMiddleware

	APIRate     *middleware.RateLimiter
	UploadDir   string
	DownloadDir string

	startedAt time.Time
}

func NewRouter(
	e *echo.Echo,
	authHandler *handler.AuthHandler,
	messageHandler *handler.MessageHandler,
	fileHandler *handler.FileHandler,
	authMiddleware middleware.AuthMiddleware,
	apiRate rate.Limit,
	apiBurst int,
) *Router {
	return &Router{
		Echo:           e,
		Auth:           authHandler,
		Messages:       messageHandler,
		Files:          fileHandler,
		AuthMiddleware: authMiddleware,
		APIRate:        middleware.NewRateLimiter(apiRate, apiBurst, 15*time.Minute),
		startedAt:      time.Now(),
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo

	api := e.Group("/api", r.APIRate.Middleware())

	auth := api.Group("/auth")
	auth.POST("/start", r.Auth.Start)
	auth.POST("/verify", r.Auth.Verify)
	auth.GET("/me", r.Auth.Me, r.AuthMiddleware.RequireAuth)
	auth.POST("/logout", r.Auth.Logout, r.AuthMiddleware.RequireAuth)

	messages := api.Group("/messages", r.AuthMiddleware.RequireAuth)
	messages.GET("", r.Messages.List)
	messages.GET("/message/:messageId", r.Messages.Get)
	messages.POST("", r.Messages.Send)
	messages.DELETE("/message/:messageId", r.Messages.Delete)

	files := api.Group("/files", r.AuthMiddleware.RequireAuth)
	files.POST("/upload", r.Files.Upload)
	files.POST("/send", r.Files.Send)
	files.POST("/download", r.Files.Download)
	files.GET("/uploads", r.Files.ListUploads)
	files.GET("/downloads", r.Files.ListDownloads)
	files.DELETE("/:type/:fileName", r.Files.Delete)

	api.GET("/health", r.health)
	api.GET("", r.index)

	if r.UploadDir != "" {
		e.Static("/uploads", r.UploadDir)
	}
	if r.DownloadDir != "" {
		e.Static("/downloads", r.DownloadDir)
	}

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "route not found",
			"path":  c.Request().URL.Path,
		})
	})
}

func (r *Router) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(r.startedAt).Seconds(),
	})
}

func (r *Router) index(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"name":    "Telegram Saved Messages API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"auth":     "/api/auth",
			"messages": "/api/messages",
			"files":    "/api/files",
			"health":   "/api/health",
		},
	})
}
