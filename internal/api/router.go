package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Hriday2406/NoAI-Backend/internal/api/handler"
	"github.com/Hriday2406/NoAI-Backend/internal/api/middleware"
	"github.com/Hriday2406/NoAI-Backend/internal/core/ports"
	"github.com/Hriday2406/NoAI-Backend/internal/core/service"
	"github.com/Hriday2406/NoAI-Backend/internal/infrastructure/config"
	mongodb "github.com/Hriday2406/NoAI-Backend/internal/infrastructure/db/mongo"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, sender ports.OTPSender, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("auth"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	issuer := service.NewJWTIssuer(cfg.JWTSecret, cfg.JWTTTL)
	authService := service.NewAuthService(userRepo, sender, issuer, log)
	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(authService)
	authMiddleware := middleware.Auth(cfg.JWTSecret)

	// --- Public auth routes ---
	e.POST("/register", authHandler.Register)
	e.POST("/verify-otp", authHandler.VerifyOTP)
	e.POST("/login", authHandler.Login)
	e.POST("/verify-login-otp", authHandler.VerifyLoginOTP)

	// --- Protected routes ---
	e.GET("/me", profileHandler.Me, authMiddleware)
	e.PUT("/profile", profileHandler.Update, authMiddleware)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Metrics exposition ---
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
