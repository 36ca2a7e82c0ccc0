//go:build integration

package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/fabrica-vision/presenca/internal/domain"
)

func setupIntegrationTest(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "pgvector/pgvector:pg16",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "presenca_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("postgres://test:test@%s:%s/presenca_test?sslmode=disable", host, port.Port())

	db, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	_, err = db.Exec(ctx, `
		CREATE EXTENSION IF NOT EXISTS "uuid-ossp";
		CREATE EXTENSION IF NOT EXISTS "vector";

		CREATE TABLE IF NOT EXISTS students (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			student_id VARCHAR(20) NOT NULL UNIQUE,
			name VARCHAR(100) NOT NULL,
			embedding vector(128),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS attendance (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			student_id VARCHAR(20) NOT NULL,
			name VARCHAR(100) NOT NULL,
			date VARCHAR(10) NOT NULL,
			time VARCHAR(8) NOT NULL,
			status VARCHAR(10) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			UNIQUE(student_id, date)
		);
	`)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return db, cleanup
}

// TestAttendanceUniqueness_Integration drives concurrent inserts for the
// same (student_id, date) against a real Postgres and asserts the unique
// index lets exactly one through.
func TestAttendanceUniqueness_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupIntegrationTest(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewAttendanceRepository(db)

	const callers = 16
	var wg sync.WaitGroup
	outcomes := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record := &domain.AttendanceRecord{
				StudentID: "STU-001",
				Name:      "Alice",
				Date:      "2024-05-01",
				Time:      "09:00:00",
				Status:    domain.StatusPresent,
			}
			outcomes <- repo.Insert(ctx, record)
		}()
	}

	wg.Wait()
	close(outcomes)

	var marked, duplicates int
	for err := range outcomes {
		switch {
		case err == nil:
			marked++
		case assert.ErrorIs(t, err, domain.ErrAttendanceExists):
			duplicates++
		}
	}

	assert.Equal(t, 1, marked, "exactly one concurrent insert must win")
	assert.Equal(t, callers-1, duplicates)

	exists, err := repo.Has(ctx, "STU-001", "2024-05-01")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStudentCatalog_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupIntegrationTest(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewStudentRepository(db)

	embedding := make([]float64, domain.EncodingSize)
	embedding[0] = 0.25

	student := &domain.Student{StudentID: "STU-001", Name: "Alice", Embedding: embedding}
	require.NoError(t, repo.Create(ctx, student))

	// Second create with the same student_id hits the unique constraint.
	dup := &domain.Student{StudentID: "STU-001", Name: "Alice Again", Embedding: embedding}
	assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrStudentExists)

	// A student without embedding is excluded from the cache feed.
	require.NoError(t, repo.Create(ctx, &domain.Student{StudentID: "STU-002", Name: "Bob"}))

	withEmbeddings, err := repo.ListWithEmbeddings(ctx)
	require.NoError(t, err)
	require.Len(t, withEmbeddings, 1)
	assert.Equal(t, "STU-001", withEmbeddings[0].StudentID)
	assert.InDelta(t, 0.25, withEmbeddings[0].Embedding[0], 1e-6)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
