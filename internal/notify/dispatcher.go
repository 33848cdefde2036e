package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ttvMolten/Egov-services-db/internal/metrics"
)

// Sender delivers one message to the staff channel.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Dispatcher makes a single fire-and-forget delivery attempt per message.
// Failures are logged and counted, never returned.
type Dispatcher struct {
	Sender  Sender
	Logger  *slog.Logger
	Timeout time.Duration

	wg sync.WaitGroup
}

func (d *Dispatcher) Deliver(kind, text string) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		timeout := d.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := d.Sender.Send(ctx, text); err != nil {
			metrics.ReportDeliveries.WithLabelValues("failed").Inc()
			d.Logger.Error("report delivery failed", "kind", kind, "err", err)
			return
		}
		metrics.ReportDeliveries.WithLabelValues("sent").Inc()
		d.Logger.Info("report delivered", "kind", kind)
	}()
}

// Wait blocks until in-flight deliveries finish.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// LogSender writes messages to the log; used when no chat is configured.
type LogSender struct {
	Logger *slog.Logger
}

func (s LogSender) Send(_ context.Context, text string) error {
	s.Logger.Info("report (notifier disabled)", "text", text)
	return nil
}
