package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStudentID(t *testing.T) {
	tests := []struct {
		name      string
		studentID string
		wantErr   bool
	}{
		{"valid alphanumeric", "STU2024-001", false},
		{"valid underscore", "john_doe_42", false},
		{"minimum length", "ab1", false},
		{"empty", "", true},
		{"too short", "ab", true},
		{"too long", "a123456789012345678901", true},
		{"invalid chars", "stu 001", true},
		{"invalid symbol", "stu@001", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStudentID(tt.studentID)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidationFailed)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Alice", false},
		{"with space", "Mary Jane Watson", false},
		{"with apostrophe", "O'Brien", false},
		{"with hyphen", "Jean-Luc", false},
		{"empty", "", true},
		{"single char", "A", true},
		{"digits", "Alice2", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidationFailed)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmbedding(t *testing.T) {
	assert.NoError(t, ValidateEmbedding(make([]float64, EncodingSize)))
	assert.ErrorIs(t, ValidateEmbedding(make([]float64, 64)), ErrInvalidEmbedding)
	assert.ErrorIs(t, ValidateEmbedding(nil), ErrInvalidEmbedding)
}

func TestNewPresentRecord(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 15, 30, 0, time.UTC)

	record := NewPresentRecord("STU-001", "Alice", now)

	assert.Equal(t, "2024-05-01", record.Date)
	assert.Equal(t, "09:15:30", record.Time)
	assert.Equal(t, StatusPresent, record.Status)
}

func TestSummarize(t *testing.T) {
	records := []AttendanceRecord{
		{Status: StatusPresent},
		{Status: StatusPresent},
		{Status: StatusLate},
		{Status: StatusExcused},
	}

	summary := Summarize(10, records)

	assert.Equal(t, 2, summary.PresentToday)
	assert.Equal(t, 1, summary.LateToday)
	assert.Equal(t, 7, summary.AbsentToday)
	assert.InDelta(t, 30.0, summary.AttendanceRate, 0.001)
}

func TestSummarize_EmptyCatalog(t *testing.T) {
	summary := Summarize(0, nil)

	assert.Equal(t, 0, summary.AbsentToday)
	assert.Zero(t, summary.AttendanceRate)
}

func TestValidateDate(t *testing.T) {
	require.NoError(t, ValidateDate("2024-05-01"))
	assert.ErrorIs(t, ValidateDate("01/05/2024"), ErrInvalidDate)
	assert.ErrorIs(t, ValidateDate("not-a-date"), ErrInvalidDate)
}

func TestAppError_Unwrap(t *testing.T) {
	inner := assert.AnError
	err := ErrStorageUnavailable.WithError(inner)

	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "Storage is temporarily unavailable")
}

func TestAttendanceStatus_Valid(t *testing.T) {
	assert.True(t, StatusPresent.Valid())
	assert.True(t, StatusExcused.Valid())
	assert.False(t, AttendanceStatus("unknown").Valid())
}
