package queue

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"

	"skipgram-query/internal/model"
)

// Responder serves prediction requests over NATS request-reply.
type Responder struct {
	log      *slog.Logger
	nc       *nats.Conn
	eval     model.Evaluator
	defaultK int
}

// NewResponder constructs a thin NATS-based prediction responder.
func NewResponder(log *slog.Logger, nc *nats.Conn, eval model.Evaluator, defaultK int) *Responder {
	return &Responder{log: log, nc: nc, eval: eval, defaultK: defaultK}
}

// Listen queue-subscribes to subject and replies to each request until the
// context is cancelled. Queue-group subscription lets several workers share
// the load.
func (r *Responder) Listen(ctx context.Context, subject string) error {
	sub, err := r.nc.QueueSubscribe(subject, "predict-workers", func(msg *nats.Msg) {
		r.handleMessage(msg)
	})
	if err != nil {
		return err
	}
	r.log.Info("prediction responder listening", "subject", subject)
	<-ctx.Done()
	return sub.Unsubscribe()
}

func (r *Responder) handleMessage(msg *nats.Msg) {
	resp := Respond(r.eval, r.defaultK, msg.Data)
	if resp.Error != "" {
		r.log.Warn("prediction request failed", "word", resp.Word, "err", resp.Error)
	}
	body, err := json.Marshal(resp)
	if err != nil {
		r.log.Error("failed to encode reply", "err", err)
		return
	}
	if err := msg.Respond(body); err != nil {
		r.log.Error("failed to send reply", "err", err)
	}
}
