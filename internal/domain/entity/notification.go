// internal/domain/entity/notification.go
package entity

import (
	"time"
)

// NotificationType defines the type of a notification
type NotificationType string

const (
	PriceAlert NotificationType = "price_alert"
)

// Notification is one record in the user-facing notification log
type Notification struct {
	ID         string                 `json:"id"`
	Type       NotificationType       `json:"type"`
	TrackingID string                 `json:"trackingId,omitempty"`
	Title      string                 `json:"title,omitempty"`
	Message    string                 `json:"message"`
	Data       map[string]interface{} `json:"data,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
	Read       bool                   `json:"read"`
}
