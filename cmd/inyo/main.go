package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inyo/internal/auth"
	"inyo/internal/config"
	"inyo/internal/db"
	"inyo/internal/email"
	httpx "inyo/internal/http"
	"inyo/internal/posthook"
)

func main() {
	cfg, _ := config.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Error("database connect failed", "error", err)
		os.Exit(1)
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	r := httpx.NewRouter(cfg, httpx.Deps{
		DB:       gdb,
		JWT:      auth.NewJWT(cfg.JWTSecret),
		Verifier: posthook.NewVerifier(cfg.PosthookSignature),
		Hooks:    posthook.NewClient(cfg.PosthookURL, cfg.PosthookAPIKey),
		Sender:   email.NewSendGrid(cfg.SendGridAPIKey, cfg.FromName, cfg.FromEmail, cfg.ReplyToEmail),
		Log:      log,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
