package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fabrica-vision/presenca/internal/domain"
)

// Broadcaster publishes tick results to connected live-feed clients.
type Broadcaster interface {
	BroadcastJSON(event string, payload any)
}

// EventSink receives attendance events for asynchronous delivery.
type EventSink interface {
	Emit(ctx context.Context, eventType string, payload any)
}

// markedEvent is the payload emitted when a student is marked present.
type markedEvent struct {
	StudentID  string  `json:"student_id"`
	Name       string  `json:"name"`
	Date       string  `json:"date"`
	Time       string  `json:"time"`
	Confidence float64 `json:"confidence"`
}

// Runner drives the controller on a fixed interval, draining the latest
// frame each cycle. Frames submitted between cycles overwrite each other;
// only the newest is processed.
type Runner struct {
	controller *Controller
	buffer     *FrameBuffer
	hub        Broadcaster
	sink       EventSink
	interval   time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewRunner creates the recognition loop. hub and sink may be nil when the
// live feed or webhooks are disabled.
func NewRunner(
	controller *Controller,
	buffer *FrameBuffer,
	hub Broadcaster,
	sink EventSink,
	interval time.Duration,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		controller: controller,
		buffer:     buffer,
		hub:        hub,
		sink:       sink,
		interval:   interval,
		logger:     logger,
		now:        time.Now,
	}
}

// Run blocks until ctx is done, executing one recognition cycle per
// interval.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("recognition loop started", slog.Duration("interval", r.interval))

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("recognition loop stopped")
			return
		case <-ticker.C:
			r.cycle(ctx)
		}
	}
}

func (r *Runner) cycle(ctx context.Context) {
	if !r.controller.Active() {
		return
	}

	frame, ok := r.buffer.Take()
	if !ok {
		return
	}

	results, err := r.controller.Tick(ctx, frame)
	if err != nil {
		switch {
		case errors.Is(err, ErrTickInFlight):
			r.logger.Debug("tick still in flight, frame dropped")
		case errors.Is(err, domain.ErrSessionNotActive):
			// Session ended between Active() and Tick(). Nothing to do.
		default:
			r.logger.Warn("recognition cycle failed", slog.String("error", err.Error()))
		}
		return
	}

	r.publish(ctx, results)
}

func (r *Runner) publish(ctx context.Context, results []domain.TickResult) {
	if len(results) == 0 {
		return
	}

	if r.hub != nil {
		r.hub.BroadcastJSON("recognition.tick", results)
	}

	if r.sink == nil {
		return
	}
	for _, res := range results {
		if res.Attendance != domain.MarkMarked {
			continue
		}
		r.sink.Emit(ctx, "attendance.marked", markedEvent{
			StudentID:  res.StudentID,
			Name:       res.Name,
			Date:       r.now().Format(domain.DateFormat),
			Time:       res.MarkedAt,
			Confidence: res.Confidence,
		})
	}
}
