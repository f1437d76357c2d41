package notify

import (
	"context"
	"sync"

	"github.com/line/line-bot-sdk-go/v7/linebot"
	"go.uber.org/zap"
)

// Service defines the notification dispatcher.
type Service interface {
	Send(ctx context.Context, to string, msg Message) error
	Broadcast(ctx context.Context, to []string, msg Message) *Report
}

// Report is the per-recipient outcome of a broadcast. The broadcast as a
// whole counts as delivered when at least one recipient got the message.
type Report struct {
	Requested int
	Sent      int
	Failed    int
	Failures  map[string]error
}

// OK reports whether at least one recipient received the message.
func (r *Report) OK() bool {
	return r.Sent > 0
}

// Dispatcher is the production notification service.
type Dispatcher struct {
	Client PushClient
}

func NewDispatcher(client PushClient) *Dispatcher {
	return &Dispatcher{Client: client}
}

// Send normalizes the message into ordered parts and pushes them to one
// recipient.
func (d *Dispatcher) Send(ctx context.Context, to string, msg Message) error {
	parts := Flatten(msg)
	if len(parts) == 0 {
		return ErrEmptyMessage
	}

	payload := make([]linebot.SendingMessage, 0, len(parts))
	for _, p := range parts {
		payload = append(payload, toLineMessage(p))
	}

	if err := d.Client.Push(ctx, to, payload); err != nil {
		zap.L().Error("notify: push failed", zap.String("to", to), zap.Error(err))
		return err
	}
	return nil
}

// Broadcast sends the message to every recipient concurrently. One
// recipient's failure never aborts the others; each outcome is collected in
// the report.
func (d *Dispatcher) Broadcast(ctx context.Context, to []string, msg Message) *Report {
	report := &Report{
		Requested: len(to),
		Failures:  make(map[string]error),
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, recipient := range to {
		wg.Add(1)
		go func(recipient string) {
			defer wg.Done()
			err := d.Send(ctx, recipient, msg)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed++
				report.Failures[recipient] = err
				return
			}
			report.Sent++
		}(recipient)
	}
	wg.Wait()

	if report.Failed > 0 {
		zap.L().Warn("notify: broadcast finished with failures",
			zap.Int("requested", report.Requested),
			zap.Int("sent", report.Sent),
			zap.Int("failed", report.Failed))
	}
	return report
}
