package attendance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fabrica-vision/presenca/internal/domain"
)

// Recorder é a visão do repositório de presença que o guard consome.
type Recorder interface {
	Insert(ctx context.Context, record *domain.AttendanceRecord) error
	Has(ctx context.Context, studentID, date string) (bool, error)
}

// Guard marks attendance exactly once per student per day. The pre-check
// is an optimization; the database unique constraint on (student_id, date)
// is the authority, so a concurrent duplicate insert degrades to
// AlreadyMarked instead of an error.
type Guard struct {
	repo   Recorder
	logger *slog.Logger
}

// NewGuard creates an attendance guard.
func NewGuard(repo Recorder, logger *slog.Logger) *Guard {
	return &Guard{repo: repo, logger: logger}
}

// MarkResult is the outcome of a TryMark call. Record is set only when a
// new row was actually written.
type MarkResult struct {
	Outcome domain.MarkOutcome
	Record  *domain.AttendanceRecord
}

// TryMark records the student as present for the day of now. Returns
// AlreadyMarked when a row for (studentID, date) exists, whether found by
// the pre-check or by losing the insert race. Storage failures map to
// MarkUnavailable so the caller can retry on a later cycle.
func (g *Guard) TryMark(ctx context.Context, studentID, name string, now time.Time) (MarkResult, error) {
	date := now.Format(domain.DateFormat)

	exists, err := g.repo.Has(ctx, studentID, date)
	if err != nil {
		g.logger.Warn("attendance pre-check failed",
			slog.String("student_id", studentID),
			slog.String("error", err.Error()),
		)
		return MarkResult{Outcome: domain.MarkUnavailable}, domain.ErrStorageUnavailable.WithError(err)
	}
	if exists {
		return MarkResult{Outcome: domain.MarkAlreadyMarked}, nil
	}

	record := domain.NewPresentRecord(studentID, name, now)
	if err := g.repo.Insert(ctx, record); err != nil {
		if errors.Is(err, domain.ErrAttendanceExists) {
			// Lost the race to a concurrent mark. Same end state.
			return MarkResult{Outcome: domain.MarkAlreadyMarked}, nil
		}
		g.logger.Error("attendance insert failed",
			slog.String("student_id", studentID),
			slog.String("error", err.Error()),
		)
		return MarkResult{Outcome: domain.MarkUnavailable}, domain.ErrStorageUnavailable.WithError(err)
	}

	g.logger.Info("attendance marked",
		slog.String("student_id", studentID),
		slog.String("date", record.Date),
		slog.String("time", record.Time),
	)
	return MarkResult{Outcome: domain.MarkMarked, Record: record}, nil
}
