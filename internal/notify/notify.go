package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/resolvedesk/backend/internal/lifecycle"
)

// Notifier fans lifecycle events out to interested parties. Delivery is
// best-effort; the request that produced the event never fails because a
// notification could not be sent.
type Notifier interface {
	Notify(ctx context.Context, events []lifecycle.Event)
}

type LogNotifier struct {
	Logger zerolog.Logger
}

func (n LogNotifier) Notify(ctx context.Context, events []lifecycle.Event) {
	for _, ev := range events {
		e := n.Logger.Info().
			Str("event", string(ev.Kind)).
			Str("complaint_id", ev.ComplaintID).
			Str("actor_id", ev.ActorID).
			Str("actor_name", ev.ActorName)
		if ev.TargetLevel != "" {
			e = e.Str("target_level", string(ev.TargetLevel))
		}
		if ev.NewStatus != "" {
			e = e.Str("new_status", string(ev.NewStatus))
		}
		e.Msg(ev.Message)
	}
}

// NopNotifier discards events. Used in tests.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, []lifecycle.Event) {}
