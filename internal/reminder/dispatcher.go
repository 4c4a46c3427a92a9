package reminder

import (
	"context"
	"log/slog"

	"inyo/internal/email"
	"inyo/internal/posthook"
)

// Outcome is the single result of one delivery attempt.
type Outcome int

const (
	OutcomeSent Outcome = iota
	OutcomeCanceled
	OutcomeFailed
)

// ItemStates answers whether the owning item has reached its terminal status.
type ItemStates interface {
	Finished(ctx context.Context, itemID uint64) (bool, error)
}

// Dispatcher performs the send when the provider's callback arrives. It
// consults the cancellation guard first: the item's state is read at delivery
// time, not at scheduling time, because anything can happen in between.
type Dispatcher struct {
	Items  ItemStates
	Sender email.Sender
	Log    *slog.Logger
}

// Dispatch reports exactly one outcome per invocation. A finished item
// suppresses the send (the hook itself cannot be un-scheduled once in
// flight); an unknown item is treated as still eligible.
func (d *Dispatcher) Dispatch(ctx context.Context, p posthook.Payload) Outcome {
	if p.ItemID != 0 {
		done, err := d.Items.Finished(ctx, p.ItemID)
		if err != nil {
			d.log().Error("item state check failed", "item_id", p.ItemID, "error", err)
			return OutcomeFailed
		}
		if done {
			d.log().Info("item already finished, reminder suppressed", "item_id", p.ItemID)
			return OutcomeCanceled
		}
	}

	if err := d.Sender.Send(ctx, email.Message{
		TemplateID: p.TemplateID,
		To:         p.Email,
		Data:       p.Data,
	}); err != nil {
		d.log().Error("reminder send failed", "item_id", p.ItemID, "error", err)
		return OutcomeFailed
	}

	d.log().Info("reminder sent", "item_id", p.ItemID, "template_id", p.TemplateID)
	return OutcomeSent
}

func (d *Dispatcher) log() *slog.Logger {
	if d.Log != nil {
		return d.Log
	}
	return slog.Default()
}
