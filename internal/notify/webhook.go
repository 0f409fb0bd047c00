// Package notify delivers recorded violations to an external webhook so a
// trader can be pinged the moment a logged trade breaks their own rules.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/abdulmls2/trading-dashboard-sub001/internal/config"
	"github.com/abdulmls2/trading-dashboard-sub001/internal/models"
	"github.com/abdulmls2/trading-dashboard-sub001/internal/report"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxAttempts = 3

// WebhookNotifier POSTs violation batches to a configured URL, rate limited
// so a burst of trade edits cannot flood the receiver.
type WebhookNotifier struct {
	client  *resty.Client
	url     string
	logger  *zap.Logger
	limiter *rate.Limiter
}

// NewWebhookNotifier creates a notifier from the webhook config. It returns
// nil when no URL is configured, which callers treat as "notification off".
func NewWebhookNotifier(cfg *config.Webhook, logger *zap.Logger) *WebhookNotifier {
	if cfg.URL == "" {
		return nil
	}

	return &WebhookNotifier{
		client:  resty.New().SetTimeout(10 * time.Second),
		url:     cfg.URL,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst),
	}
}

// violationPayload is one entry of the webhook body.
type violationPayload struct {
	RuleType      models.RuleKind `json:"rule_type"`
	ViolatedValue string          `json:"violated_value"`
	AllowedValues []string        `json:"allowed_values"`
	Description   string          `json:"description"`
}

// webhookBody is the JSON document delivered for one checked trade.
type webhookBody struct {
	UserID     uint               `json:"user_id"`
	TradeID    uint               `json:"trade_id"`
	TradePair  string             `json:"trade_pair"`
	Violations []violationPayload `json:"violations"`
}

// NotifyViolations delivers one trade's freshly recorded violations. Server
// errors are retried with a short backoff; anything else fails immediately.
func (n *WebhookNotifier) NotifyViolations(ctx context.Context, trade models.Trade, violations []models.Violation) error {
	body := webhookBody{
		UserID:    trade.UserID,
		TradeID:   trade.ID,
		TradePair: trade.Pair,
	}
	for _, v := range violations {
		body.Violations = append(body.Violations, violationPayload{
			RuleType:      v.RuleType,
			ViolatedValue: v.ViolatedValue,
			AllowedValues: v.AllowedValues,
			Description:   report.Describe(v),
		})
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := n.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait failed: %w", err)
		}

		resp, err := n.client.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(body).
			Post(n.url)

		if err == nil && !resp.IsError() {
			return nil
		}

		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("webhook returned status %s", resp.Status())
			if resp.StatusCode() < 500 {
				// Client errors won't get better on retry.
				return lastErr
			}
		}

		n.logger.Warn("Webhook delivery failed, retrying...",
			zap.Int("attempt", attempt),
			zap.Error(lastErr),
		)

		if attempt < maxAttempts {
			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return fmt.Errorf("webhook delivery failed after %d attempts: %w", maxAttempts, lastErr)
}
