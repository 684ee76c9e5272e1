package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/internal/domain/repository"
	"farewatch-service/pkg/logger"
	"farewatch-service/pkg/metrics"

	"github.com/google/uuid"
)

// PriceTrackerService is the inbound surface of the price tracking core
type PriceTrackerService interface {
	TrackRoute(ctx context.Context, req *entity.TrackRequest) (string, error)
	ObservePrice(ctx context.Context, trackingID string, price float64) (*entity.PriceChange, bool)
	SetAlertRule(ctx context.Context, trackingID string, req *entity.AlertRuleRequest) (bool, error)
	RemoveRoute(ctx context.Context, trackingID string) bool
	GetRoute(ctx context.Context, trackingID string) (*entity.TrackedRoute, bool)
	ListRoutes(ctx context.Context) []*entity.TrackedRoute
	GetHistory(ctx context.Context, trackingID string) ([]entity.PricePoint, bool)
	GetStats(ctx context.Context, trackingID string) (*entity.PriceStats, bool)
}

// PriceTracker orchestrates the price update pipeline: repository lookup,
// history append, alert evaluation and notification emission
type PriceTracker struct {
	trackingRepo     repository.TrackingRepository
	notificationRepo repository.NotificationRepository
	dispatchers      []repository.AlertDispatcher
	airlineRepo      repository.AirlineRepository
	airportRepo      repository.AirportRepository
	validator        *RequestValidator
	metrics          *metrics.Metrics
	logger           logger.Logger
	now              func() time.Time
}

// NewPriceTracker creates a new price tracker. The airline and airport
// repositories are optional; without them alert messages fall back to raw
// codes. Metrics may be nil in tests.
func NewPriceTracker(
	trackingRepo repository.TrackingRepository,
	notificationRepo repository.NotificationRepository,
	dispatchers []repository.AlertDispatcher,
	airlineRepo repository.AirlineRepository,
	airportRepo repository.AirportRepository,
	validator *RequestValidator,
	m *metrics.Metrics,
	log logger.Logger,
) *PriceTracker {
	return &PriceTracker{
		trackingRepo:     trackingRepo,
		notificationRepo: notificationRepo,
		dispatchers:      dispatchers,
		airlineRepo:      airlineRepo,
		airportRepo:      airportRepo,
		validator:        validator,
		metrics:          m,
		logger:           log,
		now:              time.Now,
	}
}

// TrackRoute starts tracking a route, or restarts tracking with a fresh
// history when the same origin/destination/date/airline is already tracked
func (pt *PriceTracker) TrackRoute(ctx context.Context, req *entity.TrackRequest) (string, error) {
	if err := pt.validator.ValidateTrackRequest(req); err != nil {
		pt.logger.Warn("Rejected track request", "error", err)
		return "", err
	}

	trackingID, err := pt.trackingRepo.Track(ctx, req, pt.now())
	if err != nil {
		return "", err
	}

	pt.logger.Info("Tracking route",
		"trackingId", trackingID,
		"origin", req.Origin,
		"destination", req.Destination,
		"date", req.Date,
		"airline", req.Airline,
		"price", req.Price)

	return trackingID, nil
}

// ObservePrice runs one price sample through the pipeline. An unknown
// tracking id is logged and reported as not found rather than escalated.
func (pt *PriceTracker) ObservePrice(ctx context.Context, trackingID string, price float64) (*entity.PriceChange, bool) {
	started := time.Now()
	if pt.metrics != nil {
		pt.metrics.ObservationsProcessed.Inc()
		defer func() {
			pt.metrics.ObservationTime.Observe(time.Since(started).Seconds())
		}()
	}

	result, found := pt.trackingRepo.ApplyObservation(ctx, trackingID, price, pt.now())
	if !found {
		pt.logger.Warn("Tracking ID not found", "trackingId", trackingID)
		return nil, false
	}

	if !result.Changed {
		pt.logger.Debug("Price unchanged", "trackingId", trackingID, "price", price)
		return &entity.PriceChange{Changed: false}, true
	}

	diff := price - result.PreviousPrice

	var percentChange *float64
	if result.PreviousPrice != 0 {
		pct := Round2(diff / result.PreviousPrice * 100)
		percentChange = &pct
	} else {
		pt.logger.Warn("Previous price was zero, percent change undefined",
			"trackingId", trackingID, "price", price)
	}

	change := &entity.PriceChange{
		Changed:       true,
		Diff:          diff,
		PercentChange: percentChange,
	}

	if pt.metrics != nil {
		pt.metrics.PriceChanges.Inc()
	}

	route := result.Route
	if route.AlertEnabled && route.AlertThreshold != nil {
		if ShouldTrigger(route.AlertType, *route.AlertThreshold, route.CurrentPrice, percentChange) {
			pt.fireAlert(ctx, route, change)
		}
	}

	return change, true
}

// SetAlertRule enables alerting for a tracked route, overwriting any prior
// rule. Returns false when the tracking id is unknown.
func (pt *PriceTracker) SetAlertRule(ctx context.Context, trackingID string, req *entity.AlertRuleRequest) (bool, error) {
	if err := pt.validator.ValidateAlertRuleRequest(req); err != nil {
		pt.logger.Warn("Rejected alert rule request", "trackingId", trackingID, "error", err)
		return false, err
	}

	ok := pt.trackingRepo.SetAlertRule(ctx, trackingID, req.Threshold, entity.AlertType(req.Type))
	if !ok {
		pt.logger.Warn("Tracking ID not found", "trackingId", trackingID)
		return false, nil
	}

	pt.logger.Info("Alert rule set",
		"trackingId", trackingID,
		"threshold", req.Threshold,
		"type", req.Type)
	return true, nil
}

// RemoveRoute stops tracking a route
func (pt *PriceTracker) RemoveRoute(ctx context.Context, trackingID string) bool {
	removed := pt.trackingRepo.Remove(ctx, trackingID)
	if removed {
		pt.logger.Info("Tracking removed", "trackingId", trackingID)
	}
	return removed
}

// GetRoute returns one tracked route
func (pt *PriceTracker) GetRoute(ctx context.Context, trackingID string) (*entity.TrackedRoute, bool) {
	return pt.trackingRepo.Get(ctx, trackingID)
}

// ListRoutes returns all tracked routes in insertion order
func (pt *PriceTracker) ListRoutes(ctx context.Context) []*entity.TrackedRoute {
	return pt.trackingRepo.List(ctx)
}

// GetHistory returns the price history of a tracked route
func (pt *PriceTracker) GetHistory(ctx context.Context, trackingID string) ([]entity.PricePoint, bool) {
	route, found := pt.trackingRepo.Get(ctx, trackingID)
	if !found {
		return nil, false
	}
	return route.PriceHistory, true
}

// GetStats returns summary statistics for a tracked route
func (pt *PriceTracker) GetStats(ctx context.Context, trackingID string) (*entity.PriceStats, bool) {
	route, found := pt.trackingRepo.Get(ctx, trackingID)
	if !found {
		return nil, false
	}

	stats := ComputeStats(route.PriceHistory)
	if stats == nil {
		return nil, false
	}
	return stats, true
}

// fireAlert stores a notification and fans the alert out to every dispatch
// channel. Delivery is fire-and-forget: failures are logged, never surfaced.
func (pt *PriceTracker) fireAlert(ctx context.Context, route *entity.TrackedRoute, change *entity.PriceChange) {
	message := pt.formatAlertMessage(ctx, route, change)

	if pt.metrics != nil {
		pt.metrics.AlertsTriggered.Inc()
	}

	notification := &entity.Notification{
		ID:         uuid.NewString(),
		Type:       entity.PriceAlert,
		TrackingID: route.ID,
		Title:      "Price Alert",
		Message:    message,
		Timestamp:  pt.now(),
		Read:       false,
	}
	pt.notificationRepo.Add(ctx, notification)

	event := &entity.AlertEvent{
		TrackingID:    route.ID,
		Origin:        route.Origin,
		Destination:   route.Destination,
		Date:          route.Date,
		Airline:       route.Airline,
		CurrentPrice:  route.CurrentPrice,
		Diff:          change.Diff,
		PercentChange: change.PercentChange,
		Message:       message,
		Timestamp:     notification.Timestamp,
	}

	for _, dispatcher := range pt.dispatchers {
		if err := dispatcher.Dispatch(ctx, event); err != nil {
			pt.logger.Error("Alert dispatch failed",
				"channel", dispatcher.Name(),
				"trackingId", route.ID,
				"error", err)
			if pt.metrics != nil {
				pt.metrics.ErrorsCount.WithLabelValues("dispatch_" + dispatcher.Name()).Inc()
			}
		} else if pt.metrics != nil {
			pt.metrics.NotificationsSent.Inc()
		}
	}

	pt.logger.Info("Price alert triggered", "trackingId", route.ID, "message", message)
}

// formatAlertMessage builds the user-facing alert text. Reference lookups
// are best effort: when an airline or airport cannot be resolved the raw
// code is used instead.
func (pt *PriceTracker) formatAlertMessage(ctx context.Context, route *entity.TrackedRoute, change *entity.PriceChange) string {
	direction := "decreased"
	if change.Diff > 0 {
		direction = "increased"
	}

	origin := pt.airportDisplay(ctx, route.Origin)
	destination := pt.airportDisplay(ctx, route.Destination)

	message := fmt.Sprintf("Price %s for %s to %s on %s. Current price: ₹%s",
		direction, origin, destination, route.Date, formatPrice(route.CurrentPrice))

	if change.PercentChange != nil {
		message += fmt.Sprintf(" (%.2f%% change)", *change.PercentChange)
	}

	if pt.airlineRepo != nil {
		if airline, err := pt.airlineRepo.GetByCode(ctx, route.Airline); err == nil {
			message += " via " + airline.Name
		}
	}

	return message
}

func (pt *PriceTracker) airportDisplay(ctx context.Context, code string) string {
	if pt.airportRepo == nil {
		return code
	}
	airport, err := pt.airportRepo.GetByCode(ctx, code)
	if err != nil {
		return code
	}
	return fmt.Sprintf("%s (%s)", code, airport.CityName)
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
