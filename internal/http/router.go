package http

import (
	"log/slog"
	"net/http"

	"inyo/internal/auth"
	"inyo/internal/config"
	"inyo/internal/email"
	"inyo/internal/http/handler"
	mw "inyo/internal/http/middleware"
	"inyo/internal/item"
	"inyo/internal/posthook"
	"inyo/internal/reminder"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

type Deps struct {
	DB       *gorm.DB
	JWT      *auth.JWT
	Verifier *posthook.Verifier
	Hooks    reminder.Registrar
	Sender   email.Sender
	Log      *slog.Logger
}

func NewRouter(cfg config.Config, d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	items := &item.Store{DB: d.DB}
	reminders := &reminder.Repo{DB: d.DB}
	scheduler := &reminder.Scheduler{Repo: reminders, Hooks: d.Hooks, Log: d.Log}
	dispatcher := &reminder.Dispatcher{Items: items, Sender: d.Sender, Log: d.Log}

	// Provider callback. Not behind RequireAuth: the body signature is the
	// authentication.
	wh := &handler.WebhookHandler{
		Verifier:   d.Verifier,
		Reminders:  reminders,
		Dispatcher: dispatcher,
		Log:        d.Log,
	}
	r.Post(posthook.CallbackPath, wh.SendReminder)

	ah := &handler.AuthHandler{DB: d.DB, JWT: d.JWT}
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)

	me := &handler.MeHandler{DB: d.DB}
	r.With(auth.RequireAuth(d.JWT)).Get("/me", me.Me)

	ih := &handler.ItemHandler{
		Items:     items,
		Scheduler: scheduler,
		Sender:    d.Sender,
		DB:        d.DB,
		AppURL:    cfg.AppURL,
	}
	rh := &handler.ReminderHandler{
		Items:     items,
		Reminders: reminders,
		Sender:    d.Sender,
		DB:        d.DB,
		AppURL:    cfg.AppURL,
	}

	r.Route("/items", func(r chi.Router) {
		r.Use(auth.RequireAuth(d.JWT))

		r.Post("/", ih.Create)
		r.Get("/{id}", ih.Get)
		r.Post("/{id}/finish", ih.Finish)
		r.Post("/{id}/amendment", ih.SendAmendment)
		r.Get("/{id}/reminders", rh.ListByItem)
	})

	r.With(auth.RequireAuth(d.JWT)).Post("/reminders/preview", rh.Preview)

	return r
}
