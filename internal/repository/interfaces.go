package repository

import (
	"context"

	"github.com/fabrica-vision/presenca/internal/domain"
)

// StudentRepositoryInterface defines operations for catalog data access.
type StudentRepositoryInterface interface {
	Create(ctx context.Context, student *domain.Student) error
	GetByStudentID(ctx context.Context, studentID string) (*domain.Student, error)
	List(ctx context.Context) ([]domain.Student, error)
	// ListWithEmbeddings returns only students that carry an embedding;
	// this is the feed for the known-face cache.
	ListWithEmbeddings(ctx context.Context) ([]domain.Student, error)
	Update(ctx context.Context, student *domain.Student) error
	Delete(ctx context.Context, studentID string) error
	Count(ctx context.Context) (int, error)
}

// AttendanceRepositoryInterface defines operations for attendance data
// access. Insert relies on the (student_id, date) unique constraint and
// returns domain.ErrAttendanceExists on violation.
type AttendanceRepositoryInterface interface {
	Insert(ctx context.Context, record *domain.AttendanceRecord) error
	Has(ctx context.Context, studentID, date string) (bool, error)
	ListByDate(ctx context.Context, date string) ([]domain.AttendanceRecord, error)
	ListByDateRange(ctx context.Context, start, end string) ([]domain.AttendanceRecord, error)
	ListByStudent(ctx context.Context, studentID string, limit int) ([]domain.AttendanceRecord, error)
}
