package notify

import (
	"context"
	"errors"
	"fmt"

	"growshare-backend/internal/logger"
)

// Channel delivers one rendered message.
type Channel interface {
	Name() string
	Deliver(ctx context.Context, e Event, m Message) error
}

// Outcome reports per-channel delivery. Callers only log it.
type Outcome struct {
	Delivered []string
	Skipped   []string
	Failed    map[string]error
}

func (o Outcome) OK() bool {
	return len(o.Failed) == 0
}

// ErrSkipped is returned by a channel that has nothing to deliver for the
// recipient, such as a missing push token.
var ErrSkipped = errors.New("delivery skipped")

type Dispatcher struct {
	channels []Channel
}

func NewDispatcher(channels ...Channel) *Dispatcher {
	return &Dispatcher{channels: channels}
}

// Dispatch renders e and hands it to every channel in order. A failing or
// panicking channel never stops the others.
func (d *Dispatcher) Dispatch(ctx context.Context, e Event) Outcome {
	msg := Render(e)
	out := Outcome{Failed: map[string]error{}}
	for _, ch := range d.channels {
		err := deliver(ctx, ch, e, msg)
		switch {
		case err == nil:
			out.Delivered = append(out.Delivered, ch.Name())
		case errors.Is(err, ErrSkipped):
			out.Skipped = append(out.Skipped, ch.Name())
		default:
			out.Failed[ch.Name()] = err
			logger.WarnContext(ctx, "Notification channel failed",
				"channel", ch.Name(), "kind", e.Kind, "userID", e.Recipient.UserID, "error", err)
		}
	}
	logger.DebugContext(ctx, "Notification dispatched",
		"kind", e.Kind, "userID", e.Recipient.UserID, "delivered", out.Delivered, "skipped", out.Skipped)
	return out
}

func deliver(ctx context.Context, ch Channel, e Event, m Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("channel %s panicked: %v", ch.Name(), r)
		}
	}()
	return ch.Deliver(ctx, e, m)
}
