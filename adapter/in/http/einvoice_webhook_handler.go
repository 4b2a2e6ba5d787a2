package http

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"einvoice_server/core/domain"
	"einvoice_server/core/port/out"
	"einvoice_server/pkg/logger"
)

// GmailPushNotification is the Pub/Sub push envelope Gmail delivers.
type GmailPushNotification struct {
	Message struct {
		Data        string `json:"data"`
		MessageID   string `json:"messageId"`
		PublishTime string `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

type WebhookHandler struct {
	producer out.MessageProducerPort
	redis    *redis.Client
	dedupTTL time.Duration
}

func NewWebhookHandler(producer out.MessageProducerPort, redisClient *redis.Client, dedupTTL time.Duration) *WebhookHandler {
	if dedupTTL <= 0 {
		dedupTTL = 5 * time.Minute
	}
	return &WebhookHandler{
		producer: producer,
		redis:    redisClient,
		dedupTTL: dedupTTL,
	}
}

func (h *WebhookHandler) Register(app fiber.Router) {
	app.Post("/notifications/gmail", h.GmailWebhook)
}

func (h *WebhookHandler) dedupKey(email string, historyID uint64) string {
	return fmt.Sprintf("einvoice:webhook:%s:%d", email, historyID)
}

// isDuplicate marks the (email, historyId) pair seen and reports whether
// it already was. Pub/Sub redelivers aggressively; a dedup miss only
// costs an idempotent re-run.
func (h *WebhookHandler) isDuplicate(ctx context.Context, email string, historyID uint64) bool {
	if h.redis == nil || historyID == 0 {
		return false
	}
	ok, err := h.redis.SetNX(ctx, h.dedupKey(email, historyID), "1", h.dedupTTL).Result()
	if err != nil {
		return false
	}
	return !ok
}

// decodePushMessage unwraps the push envelope into a NotificationEvent.
func decodePushMessage(body []byte) (*domain.NotificationEvent, error) {
	var notification GmailPushNotification
	if err := json.Unmarshal(body, &notification); err != nil {
		return nil, fmt.Errorf("parse envelope: %w", err)
	}

	data, err := base64.StdEncoding.DecodeString(notification.Message.Data)
	if err != nil {
		return nil, fmt.Errorf("decode data: %w", err)
	}

	var event domain.NotificationEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	if event.EmailAddress == "" {
		return nil, fmt.Errorf("event has no emailAddress")
	}
	return &event, nil
}

// GmailWebhook receives Gmail push notifications. Always answers 200 so
// Pub/Sub stops retrying; all failures are logged and dropped.
func (h *WebhookHandler) GmailWebhook(c *fiber.Ctx) error {
	event, err := decodePushMessage(c.Body())
	if err != nil {
		logger.WithError(err).Warn("[GmailWebhook] dropping malformed push")
		return c.SendStatus(fiber.StatusOK)
	}

	ctx := c.Context()

	if h.isDuplicate(ctx, event.EmailAddress, event.HistoryID) {
		logger.Debug("[GmailWebhook] duplicate skipped: email=%s, historyId=%d", event.EmailAddress, event.HistoryID)
		return c.SendStatus(fiber.StatusOK)
	}

	logger.Info("[GmailWebhook] received: email=%s, historyId=%d", event.EmailAddress, event.HistoryID)

	if err := h.producer.PublishIngest(ctx, event); err != nil {
		logger.WithError(err).Error("[GmailWebhook] failed to queue ingest job for %s", event.EmailAddress)
	}
	return c.SendStatus(fiber.StatusOK)
}
