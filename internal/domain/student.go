package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EncodingSize is the fixed dimension of face embedding vectors. All
// embeddings stored or matched by the engine must have exactly this length.
const EncodingSize = 128

var (
	studentIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,20}$`)
	namePattern      = regexp.MustCompile(`^[A-Za-z\-' ]{2,100}$`)
)

// Student representa um aluno cadastrado no catálogo
type Student struct {
	ID        uuid.UUID `json:"id"`
	StudentID string    `json:"student_id"`
	Name      string    `json:"name"`
	Embedding []float64 `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasEmbedding reports whether the student carries a usable face embedding.
func (s *Student) HasEmbedding() bool {
	return len(s.Embedding) == EncodingSize
}

// ValidateStudentID checks the identity key format: 3-20 chars,
// alphanumeric plus hyphen and underscore.
func ValidateStudentID(studentID string) error {
	cleaned := strings.TrimSpace(studentID)
	if cleaned == "" {
		return ErrValidationFailed.WithError(errEmpty("student_id"))
	}
	if !studentIDPattern.MatchString(cleaned) {
		return ErrValidationFailed.WithError(errFormat("student_id", "3-20 letters, digits, hyphens or underscores"))
	}
	return nil
}

// ValidateName checks the display name format: 2-100 chars, letters,
// spaces, hyphens and apostrophes.
func ValidateName(name string) error {
	cleaned := strings.TrimSpace(name)
	if cleaned == "" {
		return ErrValidationFailed.WithError(errEmpty("name"))
	}
	if !namePattern.MatchString(cleaned) {
		return ErrValidationFailed.WithError(errFormat("name", "2-100 letters, spaces, hyphens or apostrophes"))
	}
	return nil
}

// ValidateEmbedding checks the embedding dimension.
func ValidateEmbedding(embedding []float64) error {
	if len(embedding) != EncodingSize {
		return ErrInvalidEmbedding
	}
	return nil
}

type fieldError struct {
	field  string
	reason string
}

func (e fieldError) Error() string {
	return e.field + ": " + e.reason
}

func errEmpty(field string) error {
	return fieldError{field: field, reason: "is required"}
}

func errFormat(field, expected string) error {
	return fieldError{field: field, reason: "must be " + expected}
}
