package ws

import "time"

type EventType string

const (
	EventSessionStarted  EventType = "session.started"
	EventSessionEnded    EventType = "session.ended"
	EventRecognitionTick EventType = "recognition.tick"
	EventStudentCreated  EventType = "student.created"
	EventStudentDeleted  EventType = "student.deleted"
)

type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}
