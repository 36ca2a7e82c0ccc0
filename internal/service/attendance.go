package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fabrica-vision/presenca/internal/domain"
	"github.com/fabrica-vision/presenca/internal/repository"
)

// AttendanceService responde as consultas de presença (dia, período,
// histórico por aluno, resumo diário) e o registro manual.
type AttendanceService struct {
	attendanceRepo repository.AttendanceRepositoryInterface
	studentRepo    repository.StudentRepositoryInterface
}

func NewAttendanceService(
	attendanceRepo repository.AttendanceRepositoryInterface,
	studentRepo repository.StudentRepositoryInterface,
) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		studentRepo:    studentRepo,
	}
}

// ByDate returns all records for one calendar day.
func (s *AttendanceService) ByDate(ctx context.Context, date string) ([]domain.AttendanceRecord, error) {
	if err := domain.ValidateDate(date); err != nil {
		return nil, err
	}
	return s.attendanceRepo.ListByDate(ctx, date)
}

// ByDateRange returns records between start and end, inclusive.
func (s *AttendanceService) ByDateRange(ctx context.Context, start, end string) ([]domain.AttendanceRecord, error) {
	if err := domain.ValidateDate(start); err != nil {
		return nil, err
	}
	if err := domain.ValidateDate(end); err != nil {
		return nil, err
	}
	return s.attendanceRepo.ListByDateRange(ctx, start, end)
}

// History returns the most recent records for one student.
func (s *AttendanceService) History(ctx context.Context, studentID string, limit int) ([]domain.AttendanceRecord, error) {
	if err := domain.ValidateStudentID(studentID); err != nil {
		return nil, err
	}
	// Make sure the student exists so an unknown id is a 404, not an
	// empty list.
	if _, err := s.studentRepo.GetByStudentID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.attendanceRepo.ListByStudent(ctx, studentID, limit)
}

// Summary aggregates one day's records against the enrolled total.
func (s *AttendanceService) Summary(ctx context.Context, date string) (*domain.AttendanceSummary, error) {
	records, err := s.ByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	total, err := s.studentRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	summary := domain.Summarize(total, records)
	summary.Date = date
	return &summary, nil
}

// Mark writes a manual attendance record for today. Teachers use it to
// register statuses the camera never produces (late, excused, absent).
func (s *AttendanceService) Mark(ctx context.Context, studentID string, status domain.AttendanceStatus) (*domain.AttendanceRecord, error) {
	if err := domain.ValidateStudentID(studentID); err != nil {
		return nil, err
	}
	if status == "" {
		status = domain.StatusPresent
	}
	if !status.Valid() {
		return nil, domain.ErrValidationFailed.WithError(fmt.Errorf("unknown status %q", status))
	}

	student, err := s.studentRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	record := domain.NewPresentRecord(student.StudentID, student.Name, time.Now())
	record.Status = status

	// The (student_id, date) constraint turns a duplicate into
	// ErrAttendanceExists; no pre-check needed here.
	if err := s.attendanceRepo.Insert(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}
