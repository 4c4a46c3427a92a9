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
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// amendmentTemplateID renders the initial "your amendment is ready" email;
// the follow-ups come from reminder.AmendmentSteps.
const amendmentTemplateID = "d-89e93a0c04994a70afd1c2eb0304f281"

type ItemHandler struct {
	Items     *item.Store
	Scheduler *reminder.Scheduler
	Sender    email.Sender
	DB        *gorm.DB
	AppURL    string
}

type createItemReq struct {
	Name          string   `json:"name"`
	CustomerName  string   `json:"customer_name"`
	CustomerEmail string   `json:"customer_email"`
	Tags          []string `json:"tags"`
}

type itemDTO struct {
	ID            uint64    `json:"id"`
	Name          string    `json:"name"`
	Status        string    `json:"status"`
	CustomerName  string    `json:"customer_name,omitempty"`
	CustomerEmail string    `json:"customer_email,omitempty"`
	Tags          []string  `json:"tags"`
	CreatedAt     time.Time `json:"created_at"`
}

func toItemDTO(it *item.Item) itemDTO {
	return itemDTO{
		ID:            it.ID,
		Name:          it.Name,
		Status:        string(it.Status),
		CustomerName:  it.CustomerName,
		CustomerEmail: it.CustomerEmail,
		Tags:          it.Tags,
		CreatedAt:     it.CreatedAt,
	}
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req createItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		http.Error(w, "name required", http.StatusBadRequest)
		return
	}

	it := item.Item{
		OwnerID:       uid,
		Name:          req.Name,
		Status:        item.StatusPending,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerEmail: strings.TrimSpace(strings.ToLower(req.CustomerEmail)),
		Tags:          pq.StringArray(req.Tags),
	}
	if err := h.Items.Create(r.Context(), &it); err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"id": it.ID})
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	it, ok := h.loadItem(w, r, uid)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toItemDTO(it))
}

// Finish marks an item done. Pending reminders are left alone here; the
// delivery path checks the item again at send time and cancels then (a hook
// already registered with the provider cannot be un-scheduled anyway).
func (h *ItemHandler) Finish(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	it, ok := h.loadItem(w, r, uid)
	if !ok {
		return
	}

	done, err := h.Items.Finish(r.Context(), it.ID, uid)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if !done {
		http.Error(w, "item already finished", http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":     it.ID,
		"status": string(item.StatusFinished),
	})
}

// SendAmendment emails the item's customer now and schedules the follow-up
// reminders. Scheduling is best-effort: whatever happens to the registrations
// the amendment itself has already gone out, so the response is a success
// with the count of reminders that actually got scheduled.
func (h *ItemHandler) SendAmendment(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	ctx := r.Context()

	it, ok := h.loadItem(w, r, uid)
	if !ok {
		return
	}
	if it.CustomerEmail == "" {
		http.Error(w, "item has no customer", http.StatusBadRequest)
		return
	}

	var owner auth.User
	if err := h.DB.WithContext(ctx).First(&owner, uid).Error; err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	data := map[string]any{
		"user":         owner.FullName(),
		"customerName": it.CustomerName,
		"itemName":     it.Name,
		"url":          h.AppURL + "/tasks/" + strconv.FormatUint(it.ID, 10),
	}

	if err := h.Sender.Send(ctx, email.Message{
		TemplateID: amendmentTemplateID,
		To:         it.CustomerEmail,
		Data:       data,
	}); err != nil {
		http.Error(w, "could not send amendment email", http.StatusBadGateway)
		return
	}

	created := h.Scheduler.Schedule(ctx, it.ID, time.Now(), it.CustomerEmail, data, reminder.AmendmentSteps)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"sent":      true,
		"scheduled": len(created),
	})
}

func (h *ItemHandler) loadItem(w http.ResponseWriter, r *http.Request, uid uint64) (*item.Item, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return nil, false
	}

	it, err := h.Items.Get(r.Context(), id, uid)
	if err != nil {
		if errors.Is(err, item.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return nil, false
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return nil, false
	}
	return it, true
}
