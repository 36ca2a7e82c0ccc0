package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fabrica-vision/presenca/internal/domain"
)

// StudentService interface for the catalog service
type StudentService interface {
	Enroll(ctx context.Context, studentID, name string, imageBytes []byte) (*domain.Student, error)
	UpdatePhoto(ctx context.Context, studentID string, imageBytes []byte) (*domain.Student, error)
	Rename(ctx context.Context, studentID, name string) (*domain.Student, error)
	Get(ctx context.Context, studentID string) (*domain.Student, error)
	List(ctx context.Context) ([]domain.Student, error)
	Delete(ctx context.Context, studentID string) error
}

// StudentHandler handles catalog requests
type StudentHandler struct {
	service StudentService
	logger  *slog.Logger
}

func NewStudentHandler(service StudentService, logger *slog.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		logger:  logger,
	}
}

// StudentResponse is the wire shape of a catalog entry. The embedding is
// never serialized.
type StudentResponse struct {
	StudentID    string `json:"student_id"`
	Name         string `json:"name"`
	HasEmbedding bool   `json:"has_embedding"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

func toStudentResponse(s *domain.Student) StudentResponse {
	return StudentResponse{
		StudentID:    s.StudentID,
		Name:         s.Name,
		HasEmbedding: s.HasEmbedding(),
		CreatedAt:    s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:    s.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Enroll POST /v1/students - enroll a student with a photo
func (h *StudentHandler) Enroll(c *fiber.Ctx) error {
	studentID := strings.TrimSpace(c.FormValue("student_id"))
	if studentID == "" {
		return domain.ErrValidationFailed.WithError(errors.New("student_id is required"))
	}

	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return domain.ErrValidationFailed.WithError(errors.New("name is required"))
	}

	imageBytes, err := extractAndValidateImage(c)
	if err != nil {
		return fmt.Errorf("enroll student: %w", err)
	}

	student, err := h.service.Enroll(c.Context(), studentID, name, imageBytes)
	if err != nil {
		return err
	}

	h.logger.Info("student enrolled", slog.String("student_id", student.StudentID))
	return c.Status(fiber.StatusCreated).JSON(toStudentResponse(student))
}

// List GET /v1/students
func (h *StudentHandler) List(c *fiber.Ctx) error {
	students, err := h.service.List(c.Context())
	if err != nil {
		return err
	}

	response := make([]StudentResponse, 0, len(students))
	for i := range students {
		response = append(response, toStudentResponse(&students[i]))
	}

	return c.JSON(fiber.Map{"students": response})
}

// Get GET /v1/students/:student_id
func (h *StudentHandler) Get(c *fiber.Ctx) error {
	student, err := h.service.Get(c.Context(), c.Params("student_id"))
	if err != nil {
		return err
	}
	return c.JSON(toStudentResponse(student))
}

// UpdatePhoto PUT /v1/students/:student_id/photo
func (h *StudentHandler) UpdatePhoto(c *fiber.Ctx) error {
	imageBytes, err := extractAndValidateImage(c)
	if err != nil {
		return fmt.Errorf("update student photo: %w", err)
	}

	student, err := h.service.UpdatePhoto(c.Context(), c.Params("student_id"), imageBytes)
	if err != nil {
		return err
	}

	return c.JSON(toStudentResponse(student))
}

// RenameRequest is the body of the rename endpoint.
type RenameRequest struct {
	Name string `json:"name"`
}

// Rename PATCH /v1/students/:student_id
func (h *StudentHandler) Rename(c *fiber.Ctx) error {
	var req RenameRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	student, err := h.service.Rename(c.Context(), c.Params("student_id"), strings.TrimSpace(req.Name))
	if err != nil {
		return err
	}

	return c.JSON(toStudentResponse(student))
}

// Delete DELETE /v1/students/:student_id
func (h *StudentHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("student_id")); err != nil {
		return err
	}

	h.logger.Info("student deleted", slog.String("student_id", c.Params("student_id")))
	return c.SendStatus(fiber.StatusNoContent)
}
