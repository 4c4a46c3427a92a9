package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"inyo/internal/posthook"
	"inyo/internal/reminder"
)

const maxCallbackBody = 1 << 20

// WebhookHandler receives the scheduling provider's delivery callbacks. Each
// call is handled statelessly; all coordination goes through the reminder
// record's conditional transitions, so duplicate deliveries collapse into
// no-ops.
type WebhookHandler struct {
	Verifier   *posthook.Verifier
	Reminders  *reminder.Repo
	Dispatcher *reminder.Dispatcher
	Log        *slog.Logger
}

func (h *WebhookHandler) SendReminder(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxCallbackBody))
	if err != nil {
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}

	// Authenticate before reading or mutating anything.
	if err := h.Verifier.Verify(body, r.Header.Get(posthook.SignatureHeader)); err != nil {
		h.log().Warn("callback signature rejected", "remote", r.RemoteAddr)
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	var cb posthook.Callback
	if err := json.Unmarshal(body, &cb); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	rem, err := h.Reminders.FindScheduledByPostHookID(ctx, cb.ID)
	if err != nil {
		h.log().Error("reminder lookup failed", "post_hook_id", cb.ID, "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	switch h.Dispatcher.Dispatch(ctx, cb.Data) {
	case reminder.OutcomeCanceled:
		if rem != nil {
			h.transition(ctx, rem, reminder.StatusCanceled)
		}
		// The send was suppressed on purpose; a retry would be too.
		w.WriteHeader(http.StatusOK)

	case reminder.OutcomeSent:
		if rem == nil {
			h.log().Warn("reminder not found but sent", "post_hook_id", cb.ID)
		} else {
			h.transition(ctx, rem, reminder.StatusSent)
		}
		// posthook wants a 200, not a 204.
		w.WriteHeader(http.StatusOK)

	case reminder.OutcomeFailed:
		if rem == nil {
			h.log().Warn("reminder not found and errored", "post_hook_id", cb.ID)
		} else {
			h.transition(ctx, rem, reminder.StatusError)
		}
		// Failure status lets the provider apply its own retry policy.
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": "Something wrong happened!",
		})
	}
}

func (h *WebhookHandler) transition(ctx context.Context, rem *reminder.Reminder, to reminder.Status) {
	ok, err := h.Reminders.Transition(ctx, rem.ID, reminder.StatusScheduled, to)
	if err != nil {
		h.log().Error("reminder transition failed", "reminder_id", rem.ID, "to", to, "error", err)
		return
	}
	if !ok {
		// Lost the race against a duplicate delivery; the record is already
		// terminal and stays whatever it is.
		h.log().Info("reminder already terminal", "reminder_id", rem.ID, "wanted", to)
		return
	}
	h.log().Info("reminder status updated", "reminder_id", rem.ID, "status", to)
}

func (h *WebhookHandler) log() *slog.Logger {
	if h.Log != nil {
		return h.Log
	}
	return slog.Default()
}
