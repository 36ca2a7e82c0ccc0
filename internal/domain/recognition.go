package domain

// Region is a face bounding box in pixel coordinates, in the
// (top, right, bottom, left) convention of the upstream detector.
type Region struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// MatchResult describes the outcome of matching one probe embedding against
// the known-face snapshot. Produced and consumed within a single tick.
type MatchResult struct {
	StudentID  string  `json:"student_id,omitempty"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Region     Region  `json:"region"`
	IsMatch    bool    `json:"is_match"`
}

// UnknownMatch builds the unmatched result for a detected region.
func UnknownMatch(region Region) MatchResult {
	return MatchResult{Name: "Unknown", Region: region}
}

// MarkOutcome is the result of an attendance write attempt.
type MarkOutcome string

const (
	// MarkMarked means a new record was written.
	MarkMarked MarkOutcome = "marked"
	// MarkAlreadyMarked means a record for (student, date) already existed.
	MarkAlreadyMarked MarkOutcome = "already_marked"
	// MarkUnavailable means storage failed; the caller may retry.
	MarkUnavailable MarkOutcome = "storage_unavailable"
	// MarkSkipped means no write was attempted (unmatched face, or the
	// identity was already handled earlier in the session).
	MarkSkipped MarkOutcome = "skipped"
)

// TickResult annotates one MatchResult with the attendance action taken
// during the tick that produced it.
type TickResult struct {
	MatchResult
	Attendance MarkOutcome `json:"attendance"`
	MarkedAt   string      `json:"marked_at,omitempty"`
}
