// internal/domain/entity/alert_event.go
package entity

import (
	"time"
)

// AlertEvent is the structured payload handed to alert dispatch channels
// when a price alert fires
type AlertEvent struct {
	TrackingID    string    `json:"trackingId"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	Date          string    `json:"date"`
	Airline       string    `json:"airline"`
	CurrentPrice  float64   `json:"currentPrice"`
	Diff          float64   `json:"diff"`
	PercentChange *float64  `json:"percentChange,omitempty"`
	Message       string    `json:"message"`
	Timestamp     time.Time `json:"timestamp"`
}
