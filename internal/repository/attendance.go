package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fabrica-vision/presenca/internal/domain"
)

type AttendanceRepository struct {
	pool PgxPool
}

func NewAttendanceRepository(pool PgxPool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// Insert writes a new attendance record. The unique index on
// (student_id, date) is the authoritative duplicate guard: a violation maps
// to domain.ErrAttendanceExists so concurrent callers can treat it as an
// expected outcome rather than a failure.
func (r *AttendanceRepository) Insert(ctx context.Context, record *domain.AttendanceRecord) error {
	query := `
		INSERT INTO attendance (id, student_id, name, date, time, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at
	`

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		record.ID,
		record.StudentID,
		record.Name,
		record.Date,
		record.Time,
		record.Status,
	).Scan(&record.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAttendanceExists
		}
		return fmt.Errorf("insert attendance: %w", err)
	}

	return nil
}

func (r *AttendanceRepository) Has(ctx context.Context, studentID, date string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM attendance
			WHERE student_id = $1 AND date = $2
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, studentID, date).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check attendance: %w", err)
	}
	return exists, nil
}

func (r *AttendanceRepository) ListByDate(ctx context.Context, date string) ([]domain.AttendanceRecord, error) {
	query := `
		SELECT id, student_id, name, date, time, status, created_at
		FROM attendance
		WHERE date = $1
		ORDER BY time DESC
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("list attendance by date: %w", err)
	}
	defer rows.Close()

	return scanAttendance(rows)
}

func (r *AttendanceRepository) ListByDateRange(ctx context.Context, start, end string) ([]domain.AttendanceRecord, error) {
	query := `
		SELECT id, student_id, name, date, time, status, created_at
		FROM attendance
		WHERE date >= $1 AND date <= $2
		ORDER BY date DESC, time DESC
	`

	rows, err := r.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("list attendance by date range: %w", err)
	}
	defer rows.Close()

	return scanAttendance(rows)
}

func (r *AttendanceRepository) ListByStudent(ctx context.Context, studentID string, limit int) ([]domain.AttendanceRecord, error) {
	query := `
		SELECT id, student_id, name, date, time, status, created_at
		FROM attendance
		WHERE student_id = $1
		ORDER BY date DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, studentID, limit)
	if err != nil {
		return nil, fmt.Errorf("list attendance by student: %w", err)
	}
	defer rows.Close()

	return scanAttendance(rows)
}

func scanAttendance(rows pgx.Rows) ([]domain.AttendanceRecord, error) {
	var records []domain.AttendanceRecord
	for rows.Next() {
		var record domain.AttendanceRecord

		err := rows.Scan(
			&record.ID,
			&record.StudentID,
			&record.Name,
			&record.Date,
			&record.Time,
			&record.Status,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan attendance record: %w", err)
		}

		records = append(records, record)
	}

	return records, rows.Err()
}
