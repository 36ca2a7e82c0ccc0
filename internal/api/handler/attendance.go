package handler

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fabrica-vision/presenca/internal/domain"
)

const defaultHistoryLimit = 30

// AttendanceQueries interface for the attendance service
type AttendanceQueries interface {
	ByDate(ctx context.Context, date string) ([]domain.AttendanceRecord, error)
	ByDateRange(ctx context.Context, start, end string) ([]domain.AttendanceRecord, error)
	History(ctx context.Context, studentID string, limit int) ([]domain.AttendanceRecord, error)
	Summary(ctx context.Context, date string) (*domain.AttendanceSummary, error)
	Mark(ctx context.Context, studentID string, status domain.AttendanceStatus) (*domain.AttendanceRecord, error)
}

type AttendanceHandler struct {
	service AttendanceQueries
	logger  *slog.Logger
}

func NewAttendanceHandler(service AttendanceQueries, logger *slog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		service: service,
		logger:  logger,
	}
}

// today resolves the "date" query param, defaulting to the current day.
func today(c *fiber.Ctx) string {
	if date := c.Query("date"); date != "" {
		return date
	}
	return time.Now().Format(domain.DateFormat)
}

// ByDate GET /v1/attendance?date=YYYY-MM-DD
func (h *AttendanceHandler) ByDate(c *fiber.Ctx) error {
	date := today(c)

	records, err := h.service.ByDate(c.Context(), date)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"date":    date,
		"records": records,
	})
}

// ByDateRange GET /v1/attendance/range?start=...&end=...
func (h *AttendanceHandler) ByDateRange(c *fiber.Ctx) error {
	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		return domain.ErrValidationFailed.WithError(errors.New("start and end are required"))
	}

	records, err := h.service.ByDateRange(c.Context(), start, end)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"start":   start,
		"end":     end,
		"records": records,
	})
}

// History GET /v1/attendance/students/:student_id
func (h *AttendanceHandler) History(c *fiber.Ctx) error {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 365 {
			return domain.ErrValidationFailed.WithError(errors.New("limit must be between 1 and 365"))
		}
		limit = parsed
	}

	records, err := h.service.History(c.Context(), c.Params("student_id"), limit)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"student_id": c.Params("student_id"),
		"records":    records,
	})
}

// MarkRequest is the body of a manual attendance mark.
type MarkRequest struct {
	StudentID string `json:"student_id"`
	Status    string `json:"status"`
}

// Mark POST /v1/attendance
func (h *AttendanceHandler) Mark(c *fiber.Ctx) error {
	var req MarkRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	record, err := h.service.Mark(c.Context(), req.StudentID, domain.AttendanceStatus(req.Status))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

// Summary GET /v1/attendance/summary?date=YYYY-MM-DD
func (h *AttendanceHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.Context(), today(c))
	if err != nil {
		return err
	}
	return c.JSON(summary)
}
