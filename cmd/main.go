package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"tgbridge/api/handler"
	apiMiddleware "tgbridge/api/middleware"
	"tgbridge/api/routes"
	"tgbridge/config"
	"tgbridge/internal/entity"
	"tgbridge/internal/repository"
	"tgbridge/internal/service"
	"tgbridge/internal/telegram"
	"tgbridge/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const sessionTTL = 24 * time.Hour

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("configuration")
	}

	db, err := config.ConnectionDb(cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("database")
	}
	if err := db.AutoMigrate(&entity.AuthSession{}, &entity.AuthEvent{}); err != nil {
		logger.WithError(err).Fatal("migrate")
	}

	validate := validator.New()

	tokens := &utils.TokenManager{
		Secret: []byte(cfg.JWTSecret),
		Issuer: cfg.JWTIssuer,
		TTL:    cfg.JWTExpiry,
	}

	creds := telegram.Credentials{APIID: cfg.APIID, APIHash: cfg.APIHash}
	dialer := service.DialerFunc(func(ctx context.Context, sessionBlob string) (service.PlatformConn, error) {
		return telegram.Dial(ctx, creds, sessionBlob)
	})

	sessionRepo := repository.NewAuthSessionRepository(db)
	eventRepo := repository.NewAuthEventRepository(db)

	clientCache := service.NewClientCache(64, 30*time.Minute, service.RealClock{})
	defer clientCache.Close()

	authService := service.NewAuthService(
		sessionRepo,
		eventRepo,
		dialer,
		tokens,
		clientCache,
		service.RealClock{},
		service.AuthConfig{SessionTTL: sessionTTL},
	)
	messageService := service.NewMessageService()
	fileService, err := service.NewFileService(cfg.UploadPath, cfg.DownloadPath)
	if err != nil {
		logger.WithError(err).Fatal("file directories")
	}

	authHandler := handler.NewAuthHandler(authService, validate)
	messageHandler := handler.NewMessageHandler(messageService, validate)
	fileHandler := handler.NewFileHandler(fileService, validate)

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.Secure())
	app.Use(echoMiddleware.BodyLimit("10M"))
	app.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:     allowedOrigins(cfg),
		AllowCredentials: true,
	}))
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status": v.Status,
				"method": v.Method,
				"uri":    v.URI,
				"ip":     v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	authMiddleware := apiMiddleware.AuthMiddleware{Tokens: tokens, Auth: authService}

	// The window/max pair from the environment maps onto a token bucket that
	// refills max requests per window.
	apiRate := rate.Limit(float64(cfg.RateLimitMax) / cfg.RateLimitWindow.Seconds())
	router := routes.NewRouter(app, authHandler, messageHandler, fileHandler, authMiddleware, apiRate, cfg.RateLimitMax)
	router.UploadDir = cfg.UploadPath
	router.DownloadDir = cfg.DownloadPath
	router.RegisterRoutes()

	go expiredSessionSweeper(authService, logger)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.WithField("addr", cfg.HTTPAddr).Info("server started")
	if err := app.StartServer(server); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

// expiredSessionSweeper removes auth session records past their 24h window;
// postgres has no TTL index, so expiry is enforced here and in queries.
func expiredSessionSweeper(auth *service.AuthService, logger *logrus.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := auth.CleanupExpired(ctx); err != nil {
			logger.WithError(err).Warn("session cleanup")
		}
		cancel()
	}
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.AllowedOrigins) > 0 {
		return cfg.AllowedOrigins
	}
	return []string{"*"}
}
