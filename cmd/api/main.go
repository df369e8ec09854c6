package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Hriday2406/NoAI-Backend/internal/api"
	"github.com/Hriday2406/NoAI-Backend/internal/core/ports"
	"github.com/Hriday2406/NoAI-Backend/internal/infrastructure/config"
	mongodb "github.com/Hriday2406/NoAI-Backend/internal/infrastructure/db/mongo"
	"github.com/Hriday2406/NoAI-Backend/internal/infrastructure/mail"
	"github.com/Hriday2406/NoAI-Backend/pkg/logger"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	var sender ports.OTPSender
	if cfg.Email.Configured() {
		smtpSender, err := mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			Username: cfg.Email.User,
			Password: cfg.Email.Pass,
			From:     cfg.Email.From,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("smtp sender configuration invalid")
		}
		sender = smtpSender
		log.Info().Str("host", cfg.Email.Host).Msg("otp delivery: smtp")
	} else {
		sender = mail.NewTraceSender(log)
		log.Warn().Msg("email credentials not configured, otp delivery runs in trace mode")
	}

	e := api.NewRouter(db, sender, cfg, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("api listening")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
	log.Info().Msg("server stopped cleanly")
}
