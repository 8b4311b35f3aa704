package sms

import (
	"context"
	"log/slog"
	"strconv"
	"sync/atomic"
)

// Console writes messages to the log instead of sending them.
type Console struct {
	seq atomic.Int64
}

func NewConsole() *Console {
	return &Console{}
}

func (c *Console) Send(ctx context.Context, msg Message) (Receipt, error) {
	if msg.To == "" {
		return Receipt{}, ErrNoRecipient
	}

	id := "console-" + strconv.FormatInt(c.seq.Add(1), 10)
	slog.WarnContext(ctx, "sms console display mode, message not sent",
		"to", msg.To,
		"body", msg.Body,
		"receipt", id,
	)

	return Receipt{ID: id, Provider: DriverConsole}, nil
}

func (*Console) Close() error {
	return nil
}
