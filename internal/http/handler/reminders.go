package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"inyo/internal/auth"
	"inyo/internal/email"
	"inyo/internal/item"
	"inyo/internal/reminder"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Preview templates, one per reminder stage a customer can receive.
var previewTemplates = map[string]string{
	"DELAY":  "d-90847153d18843ad97755874cf092130",
	"FIRST":  "d-e39a839701644fd9935f437056ad535a",
	"SECOND": "d-4ad0e13f00dd485ca0d98fd1d62cd7f6",
	"LAST":   "d-97b5ce25a4464a3888b359ac02f34168",
}

type ReminderHandler struct {
	Items     *item.Store
	Reminders *reminder.Repo
	Sender    email.Sender
	DB        *gorm.DB
	AppURL    string
}

type reminderDTO struct {
	ID          uuid.UUID `json:"id"`
	ItemID      uint64    `json:"item_id"`
	PostHookID  string    `json:"post_hook_id"`
	Type        string    `json:"type"`
	SendingDate time.Time `json:"sending_date"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListByItem exposes the audit trail of an item's reminders, terminal ones
// included.
func (h *ReminderHandler) ListByItem(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if _, err := h.Items.Get(r.Context(), id, uid); err != nil {
		if errors.Is(err, item.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	rems, err := h.Reminders.ListByItem(r.Context(), id)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	out := make([]reminderDTO, 0, len(rems))
	for _, rem := range rems {
		out = append(out, reminderDTO{
			ID:          rem.ID,
			ItemID:      rem.ItemID,
			PostHookID:  rem.PostHookID,
			Type:        string(rem.Type),
			SendingDate: rem.SendingDate,
			Status:      string(rem.Status),
			CreatedAt:   rem.CreatedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

type previewReq struct {
	TaskID uint64 `json:"task_id"`
	Type   string `json:"type"`
}

// Preview sends a test reminder of the given stage to the requesting user's
// own address so they can see what their customer would receive. Nothing is
// scheduled and no record is written.
func (h *ReminderHandler) Preview(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	ctx := r.Context()

	var req previewReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	templateID, ok := previewTemplates[strings.ToUpper(strings.TrimSpace(req.Type))]
	if !ok {
		http.Error(w, "unknown preview type", http.StatusBadRequest)
		return
	}

	it, err := h.Items.Get(ctx, req.TaskID, uid)
	if err != nil {
		if errors.Is(err, item.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if it.Status != item.StatusPending {
		http.Error(w, "cannot send preview email in this task state", http.StatusBadRequest)
		return
	}

	var u auth.User
	if err := h.DB.WithContext(ctx).First(&u, uid).Error; err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	err = h.Sender.Send(ctx, email.Message{
		TemplateID: templateID,
		To:         u.Email,
		Data: map[string]any{
			"user":         u.FullName(),
			"customerName": it.CustomerName,
			"itemName":     it.Name,
			"url":          h.AppURL + "/tasks/" + strconv.FormatUint(it.ID, 10),
		},
	})
	if err != nil {
		http.Error(w, "could not send preview email", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"sent": true})
}
