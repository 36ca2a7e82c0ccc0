package handler

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/fabrica-vision/presenca/internal/session"
)

// SessionHandler controla o ciclo de vida da sessão de reconhecimento e
// recebe frames da câmera.
type SessionHandler struct {
	controller *session.Controller
	buffer     *session.FrameBuffer
	hub        session.Broadcaster
	sink       session.EventSink
	logger     *slog.Logger
}

func NewSessionHandler(
	controller *session.Controller,
	buffer *session.FrameBuffer,
	hub session.Broadcaster,
	sink session.EventSink,
	logger *slog.Logger,
) *SessionHandler {
	return &SessionHandler{
		controller: controller,
		buffer:     buffer,
		hub:        hub,
		sink:       sink,
		logger:     logger,
	}
}

// Start POST /v1/sessions - begin a recognition session
func (h *SessionHandler) Start(c *fiber.Ctx) error {
	id, err := h.controller.Start(c.Context())
	if err != nil {
		return err
	}

	if h.hub != nil {
		h.hub.BroadcastJSON("session.started", fiber.Map{"session_id": id.String()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"session_id": id.String(),
		"active":     true,
	})
}

// Stop DELETE /v1/sessions/current - end the running session
func (h *SessionHandler) Stop(c *fiber.Ctx) error {
	summary, err := h.controller.Stop()
	if err != nil {
		return err
	}

	h.buffer.Clear()

	if h.hub != nil {
		h.hub.BroadcastJSON("session.ended", summary)
	}
	if h.sink != nil {
		h.sink.Emit(c.Context(), "session.ended", summary)
	}

	return c.JSON(summary)
}

// Status GET /v1/sessions/current
func (h *SessionHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.controller.Status())
}

// SubmitFrame POST /v1/sessions/current/frames - push a camera frame.
// The frame lands in the single-slot buffer; the recognition loop picks
// up whichever frame is newest on its next cycle.
func (h *SessionHandler) SubmitFrame(c *fiber.Ctx) error {
	imageBytes, err := extractAndValidateImage(c)
	if err != nil {
		return fmt.Errorf("submit frame: %w", err)
	}

	h.buffer.Put(imageBytes)
	return c.SendStatus(fiber.StatusAccepted)
}
