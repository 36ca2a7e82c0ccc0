package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fabrica-vision/presenca/internal/domain"
)

// Service gerencia assinaturas de webhook e a entrega de eventos de
// presença. Emissões do loop de reconhecimento apenas enfileiram; o
// Worker faz a entrega com retry.
type Service struct {
	db     *pgxpool.Pool
	logger *slog.Logger
	client *http.Client
}

func NewService(db *pgxpool.Pool, logger *slog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Emit enqueues the event for every enabled webhook subscribed to
// eventType. Failures are logged, never propagated: a broken webhook
// queue must not stall attendance marking.
func (s *Service) Emit(ctx context.Context, eventType string, data any) {
	hooks, err := s.listByEvent(ctx, eventType)
	if err != nil {
		s.logger.Warn("webhook lookup failed", slog.String("event", eventType), slog.String("error", err.Error()))
		return
	}
	if len(hooks) == 0 {
		return
	}

	payload, err := json.Marshal(EventPayload{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
	})
	if err != nil {
		s.logger.Error("webhook payload marshal failed", slog.String("error", err.Error()))
		return
	}

	for _, hook := range hooks {
		if err := s.enqueue(ctx, hook.ID, eventType, payload); err != nil {
			s.logger.Warn("webhook enqueue failed",
				slog.String("webhook_id", hook.ID.String()),
				slog.String("error", err.Error()),
			)
		}
	}
}

// Send delivers the payload to one webhook with an HMAC signature header.
// Used by the worker, not by request handlers.
func (s *Service) Send(ctx context.Context, hook *Webhook, eventType string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hook.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Presenca-Signature", Sign(hook.Secret, payload))
	req.Header.Set("X-Presenca-Event", eventType)
	req.Header.Set("User-Agent", "Presenca-Webhook/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver webhook: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}

	return s.updateLastTriggered(ctx, hook.ID)
}

func (s *Service) enqueue(ctx context.Context, webhookID uuid.UUID, eventType string, payload []byte) error {
	query := `
		INSERT INTO webhook_queue (webhook_id, event_type, payload, next_retry_at)
		VALUES ($1, $2, $3, NOW())
	`

	_, err := s.db.Exec(ctx, query, webhookID, eventType, payload)
	if err != nil {
		return fmt.Errorf("enqueue webhook: %w", err)
	}
	return nil
}

func (s *Service) updateLastTriggered(ctx context.Context, webhookID uuid.UUID) error {
	query := `UPDATE webhooks SET last_triggered_at = NOW() WHERE id = $1`
	_, err := s.db.Exec(ctx, query, webhookID)
	return err
}

func (s *Service) listByEvent(ctx context.Context, eventType string) ([]*Webhook, error) {
	query := `
		SELECT id, name, url, secret, events, enabled, last_triggered_at, created_at, updated_at
		FROM webhooks
		WHERE enabled = true AND events @> $1::jsonb
	`

	eventsJSON, _ := json.Marshal([]string{eventType})

	rows, err := s.db.Query(ctx, query, eventsJSON)
	if err != nil {
		return nil, fmt.Errorf("query webhooks by event: %w", err)
	}
	defer rows.Close()

	return scanWebhooks(rows)
}

// List returns all registered webhooks, newest first.
func (s *Service) List(ctx context.Context) ([]*Webhook, error) {
	query := `
		SELECT id, name, url, secret, events, enabled, last_triggered_at, created_at, updated_at
		FROM webhooks
		ORDER BY created_at DESC
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query webhooks: %w", err)
	}
	defer rows.Close()

	return scanWebhooks(rows)
}

// Get returns one webhook by id.
func (s *Service) Get(ctx context.Context, webhookID uuid.UUID) (*Webhook, error) {
	query := `
		SELECT id, name, url, secret, events, enabled, last_triggered_at, created_at, updated_at
		FROM webhooks
		WHERE id = $1
	`

	hook, err := scanWebhook(s.db.QueryRow(ctx, query, webhookID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWebhookNotFound
		}
		return nil, fmt.Errorf("get webhook: %w", err)
	}
	return hook, nil
}

// Create registers a webhook subscription.
func (s *Service) Create(ctx context.Context, hook *Webhook) error {
	eventsJSON, err := json.Marshal(hook.Events)
	if err != nil {
		return fmt.Errorf("marshal events: %w", err)
	}

	query := `
		INSERT INTO webhooks (name, url, secret, events, enabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err = s.db.QueryRow(ctx, query,
		hook.Name, hook.URL, hook.Secret, eventsJSON, hook.Enabled,
	).Scan(&hook.ID, &hook.CreatedAt, &hook.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create webhook: %w", err)
	}
	return nil
}

// Delete removes a webhook and its pending jobs.
func (s *Service) Delete(ctx context.Context, webhookID uuid.UUID) error {
	result, err := s.db.Exec(ctx, `DELETE FROM webhooks WHERE id = $1`, webhookID)
	if err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrWebhookNotFound
	}
	return nil
}

func scanWebhooks(rows pgx.Rows) ([]*Webhook, error) {
	var hooks []*Webhook
	for rows.Next() {
		hook, err := scanWebhook(rows)
		if err != nil {
			return nil, err
		}
		hooks = append(hooks, hook)
	}
	return hooks, rows.Err()
}

func scanWebhook(row pgx.Row) (*Webhook, error) {
	var w Webhook
	var eventsJSON []byte

	err := row.Scan(
		&w.ID, &w.Name, &w.URL, &w.Secret,
		&eventsJSON, &w.Enabled, &w.LastTriggeredAt,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(eventsJSON, &w.Events); err != nil {
		return nil, fmt.Errorf("unmarshal events: %w", err)
	}
	return &w, nil
}
