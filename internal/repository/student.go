package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/fabrica-vision/presenca/internal/domain"
)

type StudentRepository struct {
	pool PgxPool
}

func NewStudentRepository(pool PgxPool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

func (r *StudentRepository) Create(ctx context.Context, student *domain.Student) error {
	query := `
		INSERT INTO students (id, student_id, name, embedding, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if student.ID == uuid.Nil {
		student.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		student.ID,
		student.StudentID,
		student.Name,
		embeddingToVector(student.Embedding),
	).Scan(&student.CreatedAt, &student.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrStudentExists
		}
		return fmt.Errorf("create student: %w", err)
	}

	return nil
}

func (r *StudentRepository) GetByStudentID(ctx context.Context, studentID string) (*domain.Student, error) {
	query := `
		SELECT id, student_id, name, embedding, created_at, updated_at
		FROM students
		WHERE student_id = $1
	`

	var student domain.Student
	var embedding *pgvector.Vector

	err := r.pool.QueryRow(ctx, query, studentID).Scan(
		&student.ID,
		&student.StudentID,
		&student.Name,
		&embedding,
		&student.CreatedAt,
		&student.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get student by student_id: %w", err)
	}

	student.Embedding = vectorToEmbedding(embedding)

	return &student, nil
}

func (r *StudentRepository) List(ctx context.Context) ([]domain.Student, error) {
	query := `
		SELECT id, student_id, name, embedding, created_at, updated_at
		FROM students
		ORDER BY name ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

func (r *StudentRepository) ListWithEmbeddings(ctx context.Context) ([]domain.Student, error) {
	query := `
		SELECT id, student_id, name, embedding, created_at, updated_at
		FROM students
		WHERE embedding IS NOT NULL
		ORDER BY student_id ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list students with embeddings: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

func (r *StudentRepository) Update(ctx context.Context, student *domain.Student) error {
	query := `
		UPDATE students
		SET name = $2, embedding = $3, updated_at = NOW()
		WHERE student_id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		student.StudentID,
		student.Name,
		embeddingToVector(student.Embedding),
	)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrStudentNotFound
	}

	return nil
}

func (r *StudentRepository) Delete(ctx context.Context, studentID string) error {
	query := `
		DELETE FROM students
		WHERE student_id = $1
	`

	result, err := r.pool.Exec(ctx, query, studentID)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrStudentNotFound
	}

	return nil
}

func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return count, nil
}

func scanStudents(rows pgx.Rows) ([]domain.Student, error) {
	var students []domain.Student
	for rows.Next() {
		var student domain.Student
		var embedding *pgvector.Vector

		err := rows.Scan(
			&student.ID,
			&student.StudentID,
			&student.Name,
			&embedding,
			&student.CreatedAt,
			&student.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}

		student.Embedding = vectorToEmbedding(embedding)
		students = append(students, student)
	}

	return students, rows.Err()
}

func embeddingToVector(embedding []float64) *pgvector.Vector {
	if len(embedding) == 0 {
		return nil
	}

	floats := make([]float32, len(embedding))
	for i, v := range embedding {
		floats[i] = float32(v)
	}
	vec := pgvector.NewVector(floats)
	return &vec
}

func vectorToEmbedding(vec *pgvector.Vector) []float64 {
	if vec == nil || vec.Slice() == nil {
		return nil
	}

	embedding := make([]float64, len(vec.Slice()))
	for i, v := range vec.Slice() {
		embedding[i] = float64(v)
	}
	return embedding
}
