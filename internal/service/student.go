package service

import (
	"context"
	"fmt"

	"github.com/fabrica-vision/presenca/internal/domain"
	"github.com/fabrica-vision/presenca/internal/provider"
	"github.com/fabrica-vision/presenca/internal/repository"
)

// CacheInvalidator marks the known-face catalog stale after writes.
type CacheInvalidator interface {
	Invalidate()
}

// StudentService implementa o cadastro de alunos: valida os dados,
// extrai o embedding da foto e mantém o cache de rostos coerente.
type StudentService struct {
	repo    repository.StudentRepositoryInterface
	encoder provider.FaceEncoder
	cache   CacheInvalidator
}

func NewStudentService(
	repo repository.StudentRepositoryInterface,
	encoder provider.FaceEncoder,
	cache CacheInvalidator,
) *StudentService {
	return &StudentService{
		repo:    repo,
		encoder: encoder,
		cache:   cache,
	}
}

// Enroll registers a student from an enrollment photo. The photo must
// contain exactly one face.
func (s *StudentService) Enroll(ctx context.Context, studentID, name string, imageBytes []byte) (*domain.Student, error) {
	if err := domain.ValidateStudentID(studentID); err != nil {
		return nil, domain.ErrValidationFailed.WithError(err)
	}
	if err := domain.ValidateName(name); err != nil {
		return nil, domain.ErrValidationFailed.WithError(err)
	}

	embedding, err := s.encodeSingleFace(ctx, imageBytes)
	if err != nil {
		return nil, err
	}

	student := &domain.Student{
		StudentID: studentID,
		Name:      name,
		Embedding: embedding,
	}

	if err := s.repo.Create(ctx, student); err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	return student, nil
}

// UpdatePhoto replaces the student's embedding with one extracted from a
// new photo.
func (s *StudentService) UpdatePhoto(ctx context.Context, studentID string, imageBytes []byte) (*domain.Student, error) {
	student, err := s.repo.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	embedding, err := s.encodeSingleFace(ctx, imageBytes)
	if err != nil {
		return nil, err
	}

	student.Embedding = embedding
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	return student, nil
}

// Rename updates the student's display name.
func (s *StudentService) Rename(ctx context.Context, studentID, name string) (*domain.Student, error) {
	if err := domain.ValidateName(name); err != nil {
		return nil, domain.ErrValidationFailed.WithError(err)
	}

	student, err := s.repo.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	student.Name = name
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	return student, nil
}

// Get returns one student by their external identifier.
func (s *StudentService) Get(ctx context.Context, studentID string) (*domain.Student, error) {
	return s.repo.GetByStudentID(ctx, studentID)
}

// List returns all enrolled students.
func (s *StudentService) List(ctx context.Context) ([]domain.Student, error) {
	return s.repo.List(ctx)
}

// Count returns the number of enrolled students.
func (s *StudentService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Delete removes a student and their attendance history.
func (s *StudentService) Delete(ctx context.Context, studentID string) error {
	if err := s.repo.Delete(ctx, studentID); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

func (s *StudentService) encodeSingleFace(ctx context.Context, imageBytes []byte) ([]float64, error) {
	faces, err := s.encoder.DetectAndEncode(ctx, imageBytes)
	if err != nil {
		return nil, fmt.Errorf("encode enrollment photo: %w", err)
	}

	if len(faces) == 0 {
		return nil, domain.ErrNoFaceDetected
	}
	if len(faces) > 1 {
		return nil, domain.ErrMultipleFaces
	}

	if err := domain.ValidateEmbedding(faces[0].Embedding); err != nil {
		return nil, domain.ErrInvalidEmbedding.WithError(err)
	}
	return faces[0].Embedding, nil
}
