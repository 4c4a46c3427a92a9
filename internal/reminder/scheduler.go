package reminder

import (
	"context"
	"log/slog"
	"time"

	"inyo/internal/posthook"
)

// Step maps one follow-up to its delay after the triggering instant and the
// template used to render it.
type Step struct {
	Offset     time.Duration
	TemplateID string
	Kind       Kind
}

// AmendmentSteps is the follow-up table applied when an amendment is issued
// for an item.
var AmendmentSteps = []Step{
	{
		Offset:     5 * 24 * time.Hour,
		TemplateID: "d-9fa98f7797d3481bb051cb7fd49ca343",
		Kind:       KindAmendmentAfter5Days,
	},
	{
		Offset:     10 * 24 * time.Hour,
		TemplateID: "d-9f2a00fcf53142fbaa9a1a34cee0ff59",
		Kind:       KindQuoteAfter10Days,
	},
}

// Registrar registers one future callback with the scheduling provider and
// returns its job id.
type Registrar interface {
	Register(ctx context.Context, postAt time.Time, p posthook.Payload) (string, error)
}

type Scheduler struct {
	Repo  *Repo
	Hooks Registrar
	Log   *slog.Logger
}

// Schedule registers one hook per step and persists a SCHEDULED record for
// each registration that succeeded. Steps are independent: a failed one is
// logged and skipped, its siblings proceed, and nothing propagates to the
// caller — reminders are best-effort relative to the action that triggered
// them. A record is only ever created after its registration succeeded.
func (s *Scheduler) Schedule(ctx context.Context, itemID uint64, issueDate time.Time, email string, data map[string]any, steps []Step) []Reminder {
	var created []Reminder

	for _, step := range steps {
		sendAt := issueDate.Add(step.Offset)

		hookID, err := s.Hooks.Register(ctx, sendAt, posthook.Payload{
			TemplateID: step.TemplateID,
			Email:      email,
			ItemID:     itemID,
			Data:       data,
		})
		if err != nil {
			s.log().Warn("reminder registration failed",
				"item_id", itemID, "kind", step.Kind, "send_at", sendAt, "error", err)
			continue
		}

		rem := Reminder{
			ItemID:      itemID,
			PostHookID:  hookID,
			Type:        step.Kind,
			SendingDate: sendAt,
			Status:      StatusScheduled,
		}
		if err := s.Repo.Create(ctx, &rem); err != nil {
			// The hook will still fire; the callback will log a correlation
			// miss and the send goes out anyway.
			s.log().Error("reminder not persisted after registration",
				"item_id", itemID, "post_hook_id", hookID, "error", err)
			continue
		}

		s.log().Info("reminder scheduled",
			"item_id", itemID, "kind", step.Kind, "post_hook_id", hookID, "send_at", sendAt)
		created = append(created, rem)
	}

	return created
}

func (s *Scheduler) log() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}
