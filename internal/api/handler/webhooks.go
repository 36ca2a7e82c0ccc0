package handler

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/fabrica-vision/presenca/internal/domain"
	"github.com/fabrica-vision/presenca/internal/webhook"
)

type WebhooksHandler struct {
	service *webhook.Service
	logger  *slog.Logger
}

func NewWebhooksHandler(service *webhook.Service, logger *slog.Logger) *WebhooksHandler {
	return &WebhooksHandler{
		service: service,
		logger:  logger,
	}
}

type CreateWebhookRequest struct {
	Name    string   `json:"name"`
	URL     string   `json:"url"`
	Events  []string `json:"events"`
	Enabled bool     `json:"enabled"`
}

type WebhookResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	URL             string    `json:"url"`
	Events          []string  `json:"events"`
	Enabled         bool      `json:"enabled"`
	LastTriggeredAt *string   `json:"last_triggered_at,omitempty"`
	CreatedAt       string    `json:"created_at"`
	UpdatedAt       string    `json:"updated_at"`
}

func toWebhookResponse(w *webhook.Webhook) WebhookResponse {
	var lastTriggered *string
	if w.LastTriggeredAt != nil {
		t := w.LastTriggeredAt.Format("2006-01-02T15:04:05Z07:00")
		lastTriggered = &t
	}

	return WebhookResponse{
		ID:              w.ID,
		Name:            w.Name,
		URL:             w.URL,
		Events:          w.Events,
		Enabled:         w.Enabled,
		LastTriggeredAt: lastTriggered,
		CreatedAt:       w.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:       w.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// List GET /v1/webhooks
func (h *WebhooksHandler) List(c *fiber.Ctx) error {
	hooks, err := h.service.List(c.Context())
	if err != nil {
		return err
	}

	response := make([]WebhookResponse, 0, len(hooks))
	for _, w := range hooks {
		response = append(response, toWebhookResponse(w))
	}

	return c.JSON(fiber.Map{"webhooks": response})
}

// Create POST /v1/webhooks - the generated secret is returned exactly once
func (h *WebhooksHandler) Create(c *fiber.Ctx) error {
	var req CreateWebhookRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	if err := validateWebhookRequest(&req); err != nil {
		return domain.ErrValidationFailed.WithError(err)
	}

	secret, err := generateSecret(32)
	if err != nil {
		return domain.ErrInternal.WithError(err)
	}

	w := &webhook.Webhook{
		Name:    strings.TrimSpace(req.Name),
		URL:     req.URL,
		Secret:  secret,
		Events:  req.Events,
		Enabled: req.Enabled,
	}

	if err := h.service.Create(c.Context(), w); err != nil {
		return err
	}

	h.logger.Info("webhook created",
		slog.String("webhook_id", w.ID.String()),
		slog.String("name", w.Name),
	)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"webhook": toWebhookResponse(w),
		"secret":  secret,
	})
}

// Delete DELETE /v1/webhooks/:id
func (h *WebhooksHandler) Delete(c *fiber.Ctx) error {
	webhookID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.ErrValidationFailed.WithError(errors.New("invalid webhook id"))
	}

	if err := h.service.Delete(c.Context(), webhookID); err != nil {
		return err
	}

	h.logger.Info("webhook deleted", slog.String("webhook_id", webhookID.String()))
	return c.SendStatus(fiber.StatusNoContent)
}

func validateWebhookRequest(req *CreateWebhookRequest) error {
	if len(strings.TrimSpace(req.Name)) < 3 {
		return errors.New("name must have at least 3 characters")
	}
	parsed, err := url.Parse(req.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return errors.New("url must be a valid http(s) address")
	}
	if len(req.Events) == 0 {
		return errors.New("at least one event is required")
	}
	return nil
}

func generateSecret(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
