package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr             string
	DatabaseURL          string
	AppURL               string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	JWTSecret string

	// Posthook is the external scheduling provider. Signature is the shared
	// secret it signs callback bodies with.
	PosthookURL       string
	PosthookAPIKey    string
	PosthookSignature string

	SendGridAPIKey string
	FromName       string
	FromEmail      string
	ReplyToEmail   string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":4000"),
		DatabaseURL:          mustGetenv("DATABASE_URL"),
		AppURL:               getenv("APP_URL", "https://app.inyo.me"),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",

		PosthookURL:       getenv("POSTHOOK_URL", "https://api.posthook.io"),
		PosthookAPIKey:    mustGetenv("POSTHOOK_API_KEY"),
		PosthookSignature: mustGetenv("POSTHOOK_SIGNATURE"),

		SendGridAPIKey: mustGetenv("SENDGRID_API_KEY"),
		FromName:       getenv("FROM_NAME", "Edwige"),
		FromEmail:      getenv("FROM_EMAIL", "edwige@inyo.me"),
		ReplyToEmail:   getenv("REPLY_TO_EMAIL", "suivi@inyo.me"),
	}

	origins := strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",")
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	cfg.JWTSecret = mustGetenv("JWT_SECRET")
	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func mustGetenv(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		panic("missing env: " + key)
	}
	return v
}
