package domain

import (
	"time"

	"github.com/google/uuid"
)

// Formats for the date and time-of-day fields of attendance records.
const (
	DateFormat = "2006-01-02"
	TimeFormat = "15:04:05"
)

// AttendanceStatus enumerates the allowed status values.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusLate    AttendanceStatus = "late"
	StatusAbsent  AttendanceStatus = "absent"
	StatusExcused AttendanceStatus = "excused"
)

// Valid reports whether s is one of the known status values.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusAbsent, StatusExcused:
		return true
	}
	return false
}

// AttendanceRecord é o registro de presença persistido. At most one record
// may exist per (student_id, date) pair; the storage layer enforces this.
type AttendanceRecord struct {
	ID        uuid.UUID        `json:"id"`
	StudentID string           `json:"student_id"`
	Name      string           `json:"name"`
	Date      string           `json:"date"`
	Time      string           `json:"time"`
	Status    AttendanceStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewPresentRecord builds a record with status "present" stamped with the
// given clock time.
func NewPresentRecord(studentID, name string, now time.Time) *AttendanceRecord {
	return &AttendanceRecord{
		StudentID: studentID,
		Name:      name,
		Date:      now.Format(DateFormat),
		Time:      now.Format(TimeFormat),
		Status:    StatusPresent,
	}
}

// AttendanceSummary aggregates one day of attendance against the catalog.
type AttendanceSummary struct {
	Date           string  `json:"date,omitempty"`
	TotalStudents  int     `json:"total_students"`
	PresentToday   int     `json:"present_today"`
	LateToday      int     `json:"late_today"`
	AbsentToday    int     `json:"absent_today"`
	AttendanceRate float64 `json:"attendance_rate"`
}

// Summarize computes daily stats from the records of a single date.
func Summarize(totalStudents int, records []AttendanceRecord) AttendanceSummary {
	var present, late int
	for _, r := range records {
		switch r.Status {
		case StatusPresent:
			present++
		case StatusLate:
			late++
		}
	}

	absent := totalStudents - (present + late)
	if absent < 0 {
		absent = 0
	}

	rate := 0.0
	if totalStudents > 0 {
		rate = float64(present+late) / float64(totalStudents) * 100
	}

	return AttendanceSummary{
		TotalStudents:  totalStudents,
		PresentToday:   present,
		LateToday:      late,
		AbsentToday:    absent,
		AttendanceRate: rate,
	}
}

// ValidateDate checks the YYYY-MM-DD wire format.
func ValidateDate(date string) error {
	if _, err := time.Parse(DateFormat, date); err != nil {
		return ErrInvalidDate.WithError(err)
	}
	return nil
}
