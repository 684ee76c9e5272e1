// internal/interface/repository/kv_tracking_repo.go
package repository

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"sync"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/internal/domain/repository"
	"farewatch-service/pkg/logger"
)

// TrackedPricesKey is the durable-store key holding the repository snapshot
const TrackedPricesKey = "trackedPrices"

var whitespacePattern = regexp.MustCompile(`\s+`)

// KVTrackingRepository implements TrackingRepository with an in-memory,
// insertion-ordered collection synchronized to the durable key-value store.
// The in-memory state stays authoritative when a write to the store fails.
type KVTrackingRepository struct {
	store  repository.KVStore
	logger logger.Logger
	mu     sync.Mutex
	routes []*entity.TrackedRoute
}

// NewKVTrackingRepository creates a tracking repository backed by the given
// key-value store, loading any previously persisted snapshot
func NewKVTrackingRepository(store repository.KVStore, log logger.Logger) *KVTrackingRepository {
	r := &KVTrackingRepository{
		store:  store,
		logger: log,
	}
	r.routes = r.loadSnapshot()
	return r
}

// TrackingID derives the deterministic identifier for a route. Two requests
// with the same origin/destination/date/airline resolve to the same id.
func TrackingID(origin, destination, date, airline string) string {
	joined := strings.Join([]string{origin, destination, date, airline}, "-")
	collapsed := whitespacePattern.ReplaceAllString(joined, "-")
	return strings.ToLower(collapsed)
}

// Track creates a tracked route for the request, or fully replaces the
// existing record when the id is already tracked (history resets to a single
// entry at the new price)
func (r *KVTrackingRepository) Track(ctx context.Context, req *entity.TrackRequest, now time.Time) (string, error) {
	trackingID := TrackingID(req.Origin, req.Destination, req.Date, req.Airline)

	route := &entity.TrackedRoute{
		ID:           trackingID,
		Origin:       req.Origin,
		Destination:  req.Destination,
		Date:         req.Date,
		Airline:      req.Airline,
		CurrentPrice: req.Price,
		InitialPrice: req.Price,
		LastChecked:  now,
		PriceHistory: []entity.PricePoint{{
			Price:     req.Price,
			Timestamp: now,
		}},
		AlertEnabled: false,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.findLocked(trackingID); i != -1 {
		r.routes[i] = route
	} else {
		r.routes = append(r.routes, route)
	}

	r.persistLocked(ctx)
	return trackingID, nil
}

// Get returns a copy of the tracked route, with false when the id is unknown
func (r *KVTrackingRepository) Get(ctx context.Context, trackingID string) (*entity.TrackedRoute, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.findLocked(trackingID)
	if i == -1 {
		return nil, false
	}
	return r.routes[i].Clone(), true
}

// List returns copies of all tracked routes in insertion order
func (r *KVTrackingRepository) List(ctx context.Context) []*entity.TrackedRoute {
	r.mu.Lock()
	defer r.mu.Unlock()

	routes := make([]*entity.TrackedRoute, 0, len(r.routes))
	for _, route := range r.routes {
		routes = append(routes, route.Clone())
	}
	return routes
}

// Remove deletes a tracked route, returning false when the id is unknown
func (r *KVTrackingRepository) Remove(ctx context.Context, trackingID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.findLocked(trackingID)
	if i == -1 {
		return false
	}

	r.routes = append(r.routes[:i], r.routes[i+1:]...)
	r.persistLocked(ctx)
	return true
}

// SetAlertRule enables alerting on a route, overwriting any prior rule
func (r *KVTrackingRepository) SetAlertRule(ctx context.Context, trackingID string, threshold float64, alertType entity.AlertType) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.findLocked(trackingID)
	if i == -1 {
		return false
	}

	route := r.routes[i]
	route.AlertEnabled = true
	route.AlertThreshold = &threshold
	route.AlertType = alertType

	r.persistLocked(ctx)
	return true
}

// ApplyObservation records a price sample against a tracked route. An equal
// price only refreshes lastChecked; a different price is appended to the
// history and becomes the current price.
func (r *KVTrackingRepository) ApplyObservation(ctx context.Context, trackingID string, price float64, now time.Time) (*repository.ObservationResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.findLocked(trackingID)
	if i == -1 {
		return nil, false
	}

	route := r.routes[i]
	previous := route.CurrentPrice

	if price == previous {
		route.LastChecked = now
		r.persistLocked(ctx)
		return &repository.ObservationResult{
			Route:         route.Clone(),
			PreviousPrice: previous,
			Changed:       false,
		}, true
	}

	route.PriceHistory = append(route.PriceHistory, entity.PricePoint{
		Price:     price,
		Timestamp: now,
	})
	route.CurrentPrice = price
	route.LastChecked = now

	r.persistLocked(ctx)
	return &repository.ObservationResult{
		Route:         route.Clone(),
		PreviousPrice: previous,
		Changed:       true,
	}, true
}

func (r *KVTrackingRepository) findLocked(trackingID string) int {
	for i, route := range r.routes {
		if route.ID == trackingID {
			return i
		}
	}
	return -1
}

func (r *KVTrackingRepository) loadSnapshot() []*entity.TrackedRoute {
	data, found, err := r.store.Get(context.Background(), TrackedPricesKey)
	if err != nil {
		r.logger.Error("Failed to load tracked prices, starting empty", "error", err)
		return nil
	}
	if !found {
		return nil
	}

	var routes []*entity.TrackedRoute
	if err := json.Unmarshal(data, &routes); err != nil {
		r.logger.Error("Stored tracked prices are corrupt, starting empty", "error", err)
		return nil
	}
	return routes
}

// persistLocked rewrites the whole snapshot. A store failure is logged and
// swallowed so the in-memory state remains authoritative for the session.
func (r *KVTrackingRepository) persistLocked(ctx context.Context) {
	snapshot := r.routes
	if snapshot == nil {
		snapshot = []*entity.TrackedRoute{}
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		r.logger.Error("Failed to encode tracked prices", "error", err)
		return
	}

	if err := r.store.Set(ctx, TrackedPricesKey, data); err != nil {
		r.logger.Error("Failed to persist tracked prices", "error", err)
	}
}
