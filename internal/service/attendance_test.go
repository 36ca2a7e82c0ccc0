package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fabrica-vision/presenca/internal/domain"
)

type MockAttendanceRepository struct {
	mock.Mock
}

func (m *MockAttendanceRepository) Insert(ctx context.Context, record *domain.AttendanceRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAttendanceRepository) Has(ctx context.Context, studentID, date string) (bool, error) {
	args := m.Called(ctx, studentID, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockAttendanceRepository) ListByDate(ctx context.Context, date string) ([]domain.AttendanceRecord, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AttendanceRecord), args.Error(1)
}

func (m *MockAttendanceRepository) ListByDateRange(ctx context.Context, start, end string) ([]domain.AttendanceRecord, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AttendanceRecord), args.Error(1)
}

func (m *MockAttendanceRepository) ListByStudent(ctx context.Context, studentID string, limit int) ([]domain.AttendanceRecord, error) {
	args := m.Called(ctx, studentID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AttendanceRecord), args.Error(1)
}

func TestAttendanceService_ByDate(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		attRepo := new(MockAttendanceRepository)
		records := []domain.AttendanceRecord{
			{StudentID: "alice-01", Date: "2026-03-09", Status: domain.StatusPresent},
		}
		attRepo.On("ListByDate", mock.Anything, "2026-03-09").Return(records, nil)

		svc := NewAttendanceService(attRepo, new(MockStudentRepository))
		got, err := svc.ByDate(context.Background(), "2026-03-09")
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("malformed date", func(t *testing.T) {
		svc := NewAttendanceService(new(MockAttendanceRepository), new(MockStudentRepository))
		_, err := svc.ByDate(context.Background(), "09/03/2026")
		assert.ErrorIs(t, err, domain.ErrInvalidDate)
	})
}

func TestAttendanceService_ByDateRange(t *testing.T) {
	attRepo := new(MockAttendanceRepository)
	attRepo.On("ListByDateRange", mock.Anything, "2026-03-01", "2026-03-09").
		Return([]domain.AttendanceRecord{}, nil)

	svc := NewAttendanceService(attRepo, new(MockStudentRepository))

	_, err := svc.ByDateRange(context.Background(), "2026-03-01", "2026-03-09")
	assert.NoError(t, err)

	_, err = svc.ByDateRange(context.Background(), "bad", "2026-03-09")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestAttendanceService_History(t *testing.T) {
	t.Run("unknown student is not found", func(t *testing.T) {
		studentRepo := new(MockStudentRepository)
		studentRepo.On("GetByStudentID", mock.Anything, "ghost-99").
			Return(nil, domain.ErrStudentNotFound)

		svc := NewAttendanceService(new(MockAttendanceRepository), studentRepo)
		_, err := svc.History(context.Background(), "ghost-99", 30)
		assert.ErrorIs(t, err, domain.ErrStudentNotFound)
	})

	t.Run("known student returns records", func(t *testing.T) {
		studentRepo := new(MockStudentRepository)
		studentRepo.On("GetByStudentID", mock.Anything, "alice-01").
			Return(&domain.Student{StudentID: "alice-01"}, nil)

		attRepo := new(MockAttendanceRepository)
		attRepo.On("ListByStudent", mock.Anything, "alice-01", 30).
			Return([]domain.AttendanceRecord{{StudentID: "alice-01"}}, nil)

		svc := NewAttendanceService(attRepo, studentRepo)
		records, err := svc.History(context.Background(), "alice-01", 30)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})
}

func TestAttendanceService_Summary(t *testing.T) {
	attRepo := new(MockAttendanceRepository)
	attRepo.On("ListByDate", mock.Anything, "2026-03-09").Return([]domain.AttendanceRecord{
		{StudentID: "alice-01", Status: domain.StatusPresent},
		{StudentID: "bruno_02", Status: domain.StatusPresent},
		{StudentID: "carol-03", Status: domain.StatusLate},
	}, nil)

	studentRepo := new(MockStudentRepository)
	studentRepo.On("Count", mock.Anything).Return(10, nil)

	svc := NewAttendanceService(attRepo, studentRepo)
	summary, err := svc.Summary(context.Background(), "2026-03-09")

	require.NoError(t, err)
	assert.Equal(t, "2026-03-09", summary.Date)
	assert.Equal(t, 10, summary.TotalStudents)
	assert.Equal(t, 2, summary.PresentToday)
	assert.Equal(t, 1, summary.LateToday)
	assert.Equal(t, 7, summary.AbsentToday)
	assert.InDelta(t, 30.0, summary.AttendanceRate, 1e-9)
}

func TestAttendanceService_Mark(t *testing.T) {
	t.Run("defaults to present", func(t *testing.T) {
		studentRepo := new(MockStudentRepository)
		studentRepo.On("GetByStudentID", mock.Anything, "alice-01").
			Return(&domain.Student{StudentID: "alice-01", Name: "Alice Souza"}, nil)

		attRepo := new(MockAttendanceRepository)
		attRepo.On("Insert", mock.Anything, mock.MatchedBy(func(r *domain.AttendanceRecord) bool {
			return r.StudentID == "alice-01" && r.Name == "Alice Souza" && r.Status == domain.StatusPresent
		})).Return(nil)

		svc := NewAttendanceService(attRepo, studentRepo)
		record, err := svc.Mark(context.Background(), "alice-01", "")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPresent, record.Status)
		attRepo.AssertExpectations(t)
	})

	t.Run("explicit excused status", func(t *testing.T) {
		studentRepo := new(MockStudentRepository)
		studentRepo.On("GetByStudentID", mock.Anything, "alice-01").
			Return(&domain.Student{StudentID: "alice-01", Name: "Alice Souza"}, nil)

		attRepo := new(MockAttendanceRepository)
		attRepo.On("Insert", mock.Anything, mock.MatchedBy(func(r *domain.AttendanceRecord) bool {
			return r.Status == domain.StatusExcused
		})).Return(nil)

		svc := NewAttendanceService(attRepo, studentRepo)
		record, err := svc.Mark(context.Background(), "alice-01", domain.StatusExcused)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusExcused, record.Status)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		svc := NewAttendanceService(new(MockAttendanceRepository), new(MockStudentRepository))
		_, err := svc.Mark(context.Background(), "alice-01", "vacationing")
		assert.ErrorIs(t, err, domain.ErrValidationFailed)
	})

	t.Run("duplicate surfaces as conflict", func(t *testing.T) {
		studentRepo := new(MockStudentRepository)
		studentRepo.On("GetByStudentID", mock.Anything, "alice-01").
			Return(&domain.Student{StudentID: "alice-01", Name: "Alice Souza"}, nil)

		attRepo := new(MockAttendanceRepository)
		attRepo.On("Insert", mock.Anything, mock.Anything).Return(domain.ErrAttendanceExists)

		svc := NewAttendanceService(attRepo, studentRepo)
		_, err := svc.Mark(context.Background(), "alice-01", domain.StatusPresent)
		assert.ErrorIs(t, err, domain.ErrAttendanceExists)
	})

	t.Run("unknown student", func(t *testing.T) {
		studentRepo := new(MockStudentRepository)
		studentRepo.On("GetByStudentID", mock.Anything, "ghost-99").
			Return(nil, domain.ErrStudentNotFound)

		svc := NewAttendanceService(new(MockAttendanceRepository), studentRepo)
		_, err := svc.Mark(context.Background(), "ghost-99", domain.StatusPresent)
		assert.ErrorIs(t, err, domain.ErrStudentNotFound)
	})
}
