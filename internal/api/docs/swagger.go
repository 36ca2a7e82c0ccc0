package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// StudentData represents a catalog entry
type StudentData struct {
	StudentID    string `json:"student_id" example:"alice-01"`
	Name         string `json:"name" example:"Alice Souza"`
	HasEmbedding bool   `json:"has_embedding" example:"true"`
	CreatedAt    string `json:"created_at" example:"2026-03-09T08:00:00Z"`
	UpdatedAt    string `json:"updated_at" example:"2026-03-09T08:00:00Z"`
}

// StudentListData wraps the student collection
type StudentListData struct {
	Students []StudentData `json:"students"`
}

// AttendanceRecordData represents one attendance row
type AttendanceRecordData struct {
	StudentID string `json:"student_id" example:"alice-01"`
	Name      string `json:"name" example:"Alice Souza"`
	Date      string `json:"date" example:"2026-03-09"`
	Time      string `json:"time" example:"08:15:30"`
	Status    string `json:"status" example:"present"`
}

// AttendanceListData wraps a day's records
type AttendanceListData struct {
	Date    string                 `json:"date" example:"2026-03-09"`
	Records []AttendanceRecordData `json:"records"`
}

// AttendanceSummaryData aggregates one day against the catalog
type AttendanceSummaryData struct {
	Date           string  `json:"date" example:"2026-03-09"`
	TotalStudents  int     `json:"total_students" example:"30"`
	PresentToday   int     `json:"present_today" example:"25"`
	LateToday      int     `json:"late_today" example:"2"`
	AbsentToday    int     `json:"absent_today" example:"3"`
	AttendanceRate float64 `json:"attendance_rate" example:"90.0"`
}

// SessionData describes the session lifecycle responses
type SessionData struct {
	SessionID string `json:"session_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Active    bool   `json:"active" example:"true"`
}

// SessionSummaryData describes the summary returned when a session stops
type SessionSummaryData struct {
	SessionID      string   `json:"session_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	StartedAt      string   `json:"started_at" example:"2026-03-09T08:00:00Z"`
	EndedAt        string   `json:"ended_at" example:"2026-03-09T09:00:00Z"`
	Ticks          uint64   `json:"ticks" example:"7200"`
	MarkedStudents []string `json:"marked_students" example:"alice-01,bruno_02"`
}

// WebhookData represents a webhook subscription
type WebhookData struct {
	ID      string   `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name    string   `json:"name" example:"attendance-sink"`
	URL     string   `json:"url" example:"https://example.com/hooks/attendance"`
	Events  []string `json:"events" example:"attendance.marked"`
	Enabled bool     `json:"enabled" example:"true"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

// NewSwagger builds the OpenAPI document served at /swagger.
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Presenca API",
		Version:     "v0.1.0",
		Description: "Face recognition attendance service covering the student catalog, recognition sessions and attendance queries",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	endpoints := []*endpoint.EndPoint{
		endpoint.New(
			endpoint.POST,
			"/students",
			endpoint.WithTags("Students"),
			endpoint.WithSummary("Enroll a student"),
			endpoint.WithDescription("Registers a student from a multipart form with student_id, name and a single-face photo."),
			endpoint.WithConsume([]mime.MIME{mime.MULTIFORM}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(StudentData{}, "201", "Student enrolled"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "STUDENT_ALREADY_EXISTS", Message: "Student ID already registered"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in the image"}, "422", "Unprocessable Entity"),
			}),
		),

		endpoint.New(
			endpoint.GET,
			"/students",
			endpoint.WithTags("Students"),
			endpoint.WithSummary("List students"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(StudentListData{}, "200", "Student list"),
			}),
		),

		endpoint.New(
			endpoint.GET,
			"/students/{student_id}",
			endpoint.WithTags("Students"),
			endpoint.WithSummary("Get a student"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("student_id", parameter.Path, parameter.WithDescription("External student identifier")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(StudentData{}, "200", "Student"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "STUDENT_NOT_FOUND", Message: "Student not found"}, "404", "Not Found"),
			}),
		),

		endpoint.New(
			endpoint.DELETE,
			"/students/{student_id}",
			endpoint.WithTags("Students"),
			endpoint.WithSummary("Delete a student"),
			endpoint.WithParams(
				parameter.StrParam("student_id", parameter.Path, parameter.WithDescription("External student identifier")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(struct{}{}, "204", "Deleted"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "STUDENT_NOT_FOUND", Message: "Student not found"}, "404", "Not Found"),
			}),
		),

		endpoint.New(
			endpoint.POST,
			"/attendance",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("Mark attendance manually"),
			endpoint.WithDescription("Writes today's record for a student with an explicit status (present, late, absent, excused)."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AttendanceRecordData{}, "201", "Record written"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "STUDENT_NOT_FOUND", Message: "Student not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "ATTENDANCE_ALREADY_MARKED", Message: "Attendance already marked for today"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
			}),
		),

		endpoint.New(
			endpoint.GET,
			"/attendance",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("Attendance for one day"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("date", parameter.Query, parameter.WithDescription("Day in YYYY-MM-DD format, defaults to today")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AttendanceListData{}, "200", "Records for the day"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_DATE", Message: "Date must be in YYYY-MM-DD format"}, "422", "Unprocessable Entity"),
			}),
		),

		endpoint.New(
			endpoint.GET,
			"/attendance/summary",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("Daily attendance summary"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("date", parameter.Query, parameter.WithDescription("Day in YYYY-MM-DD format, defaults to today")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AttendanceSummaryData{}, "200", "Summary"),
			}),
		),

		endpoint.New(
			endpoint.POST,
			"/sessions",
			endpoint.WithTags("Sessions"),
			endpoint.WithSummary("Start a recognition session"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SessionData{}, "201", "Session started"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "SESSION_ALREADY_ACTIVE", Message: "A recognition session is already active"}, "409", "Conflict"),
			}),
		),

		endpoint.New(
			endpoint.DELETE,
			"/sessions/current",
			endpoint.WithTags("Sessions"),
			endpoint.WithSummary("Stop the running session"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SessionSummaryData{}, "200", "Session summary"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "SESSION_NOT_ACTIVE", Message: "No session is running"}, "409", "Conflict"),
			}),
		),

		endpoint.New(
			endpoint.POST,
			"/sessions/current/frames",
			endpoint.WithTags("Sessions"),
			endpoint.WithSummary("Submit a camera frame"),
			endpoint.WithDescription("Pushes a frame into the single-slot buffer; the recognition loop processes the newest frame each cycle."),
			endpoint.WithConsume([]mime.MIME{mime.MULTIFORM}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(struct{}{}, "202", "Frame accepted"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_IMAGE", Message: "Unsupported or oversized image"}, "422", "Unprocessable Entity"),
			}),
		),

		endpoint.New(
			endpoint.GET,
			"/webhooks",
			endpoint.WithTags("Webhooks"),
			endpoint.WithSummary("List webhook subscriptions"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]WebhookData{}, "200", "Webhook list"),
			}),
		),

		endpoint.New(
			endpoint.POST,
			"/webhooks",
			endpoint.WithTags("Webhooks"),
			endpoint.WithSummary("Create a webhook subscription"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(WebhookData{}, "201", "Webhook created, secret returned once"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
