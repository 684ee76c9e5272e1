// internal/interface/repository/webhook_dispatcher.go
package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/internal/domain/repository"
	"farewatch-service/pkg/logger"
)

// WebhookAlertDispatcher delivers fired alerts to an external HTTP endpoint
type WebhookAlertDispatcher struct {
	logger      logger.Logger
	endpoint    string
	bearerToken string
	client      *http.Client
}

// NewWebhookAlertDispatcher creates a webhook alert dispatcher
func NewWebhookAlertDispatcher(endpoint, bearerToken string, log logger.Logger) repository.AlertDispatcher {
	return &WebhookAlertDispatcher{
		logger:      log,
		endpoint:    endpoint,
		bearerToken: bearerToken,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

// Name returns the dispatch channel name
func (d *WebhookAlertDispatcher) Name() string {
	return "webhook"
}

// Dispatch posts the alert event to the configured endpoint
func (d *WebhookAlertDispatcher) Dispatch(ctx context.Context, event *entity.AlertEvent) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal alert event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", d.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if d.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+d.bearerToken)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusAccepted {
		var errorBody map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errorBody)
		return fmt.Errorf("alert webhook returned status %d: %v", resp.StatusCode, errorBody)
	}

	d.logger.Info("Alert delivered to webhook",
		"trackingId", event.TrackingID,
		"currentPrice", event.CurrentPrice)

	return nil
}
