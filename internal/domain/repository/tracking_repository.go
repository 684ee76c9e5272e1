package repository

import (
	"context"
	"time"

	"farewatch-service/internal/domain/entity"
)

// ObservationResult is what the repository reports back after applying a
// price observation to a tracked route
type ObservationResult struct {
	Route         *entity.TrackedRoute
	PreviousPrice float64
	Changed       bool
}

// TrackingRepository defines the interface for tracked route operations.
// Implementations keep insertion order and serialize mutations.
type TrackingRepository interface {
	Track(ctx context.Context, req *entity.TrackRequest, now time.Time) (string, error)
	Get(ctx context.Context, trackingID string) (*entity.TrackedRoute, bool)
	List(ctx context.Context) []*entity.TrackedRoute
	Remove(ctx context.Context, trackingID string) bool
	SetAlertRule(ctx context.Context, trackingID string, threshold float64, alertType entity.AlertType) bool
	ApplyObservation(ctx context.Context, trackingID string, price float64, now time.Time) (*ObservationResult, bool)
}
