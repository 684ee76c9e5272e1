// internal/domain/entity/tracked_route.go
package entity

import (
	"time"
)

// AlertType defines the comparison applied by an alert rule
type AlertType string

const (
	AlertBelow  AlertType = "below"
	AlertAbove  AlertType = "above"
	AlertChange AlertType = "change"
)

// PricePoint is a single observed price for a tracked route
type PricePoint struct {
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// TrackedRoute is the persisted state for one monitored
// origin/destination/date/airline combination
type TrackedRoute struct {
	ID             string       `json:"id"`
	Origin         string       `json:"origin"`
	Destination    string       `json:"destination"`
	Date           string       `json:"date"`
	Airline        string       `json:"airline"`
	CurrentPrice   float64      `json:"currentPrice"`
	InitialPrice   float64      `json:"initialPrice"`
	LastChecked    time.Time    `json:"lastChecked"`
	PriceHistory   []PricePoint `json:"priceHistory"`
	AlertEnabled   bool         `json:"alertEnabled"`
	AlertThreshold *float64     `json:"alertThreshold,omitempty"`
	AlertType      AlertType    `json:"alertType,omitempty"`
}

// Clone returns a deep copy so callers cannot mutate repository-owned state
func (r *TrackedRoute) Clone() *TrackedRoute {
	clone := *r
	clone.PriceHistory = make([]PricePoint, len(r.PriceHistory))
	copy(clone.PriceHistory, r.PriceHistory)
	if r.AlertThreshold != nil {
		threshold := *r.AlertThreshold
		clone.AlertThreshold = &threshold
	}
	return &clone
}

// PriceChange is the outcome of a price observation. PercentChange is nil
// when the previous price was zero and no meaningful percentage exists.
type PriceChange struct {
	Changed       bool     `json:"changed"`
	Diff          float64  `json:"diff,omitempty"`
	PercentChange *float64 `json:"percentChange,omitempty"`
}

// PriceStats summarizes the price history of a tracked route
type PriceStats struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Avg     float64 `json:"avg"`
	Current float64 `json:"current"`
	Trend   Trend   `json:"trend"`
}

// Trend is a coarse classification of recent price movement
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)
