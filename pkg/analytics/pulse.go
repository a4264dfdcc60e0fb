package analytics

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Default pulse cadence.
const DefaultPulseSchedule = "0 */6 * * *"

// PulseSender is the narrow client surface the pulse needs.
type PulseSender interface {
	Pulse(ctx context.Context) error
}

// Pulse periodically emits a liveness event and flushes accumulated
// execution counters on a cron schedule.
type Pulse struct {
	cron   *cron.Cron
	sender PulseSender
	logger *slog.Logger
}

func NewPulse(sender PulseSender, logger *slog.Logger) *Pulse {
	return &Pulse{
		cron:   cron.New(),
		sender: sender,
		logger: logger.With("module", "analytics_pulse"),
	}
}

// Start schedules the pulse. An empty schedule falls back to the default.
func (p *Pulse) Start(ctx context.Context, schedule string) error {
	if schedule == "" {
		schedule = DefaultPulseSchedule
	}

	_, err := p.cron.AddFunc(schedule, func() {
		err := p.sender.Pulse(ctx)
		if err != nil {
			p.logger.ErrorContext(ctx, "Failed to send analytics pulse", "error", err)
		}
	})
	if err != nil {
		return err
	}

	p.cron.Start()
	p.logger.InfoContext(ctx, "Analytics pulse scheduled", "schedule", schedule)

	return nil
}

// Stop halts the schedule. A pulse already in flight is left to finish.
func (p *Pulse) Stop() {
	p.cron.Stop()
}
