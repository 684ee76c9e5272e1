package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/pkg/logger"
)

// In-memory key-value store for testing
type fakeKVStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	setErr error
	getErr error
}

func newFakeKVStore() *fakeKVStore {
	return &fakeKVStore{data: make(map[string][]byte)}
}

func (s *fakeKVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, false, s.getErr
	}
	value, ok := s.data[key]
	return value, ok, nil
}

func (s *fakeKVStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	s.data[key] = stored
	return nil
}

func (s *fakeKVStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func delBomRequest(price float64) *entity.TrackRequest {
	return &entity.TrackRequest{
		Origin:      "DEL",
		Destination: "BOM",
		Date:        "2024-05-01",
		Airline:     "6E",
		Price:       price,
	}
}

func TestTrackingID(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		dest    string
		date    string
		airline string
		want    string
	}{
		{"plain codes", "DEL", "BOM", "2024-05-01", "6E", "del-bom-2024-05-01-6e"},
		{"mixed case", "Del", "boM", "2024-05-01", "6e", "del-bom-2024-05-01-6e"},
		{"internal whitespace", "New Delhi", "BOM", "2024-05-01", "Air India", "new-delhi-bom-2024-05-01-air-india"},
		{"tab and double space", "New\tDelhi", "Navi  Mumbai", "2024-05-01", "6E", "new-delhi-navi-mumbai-2024-05-01-6e"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrackingID(tt.origin, tt.dest, tt.date, tt.airline)
			if got != tt.want {
				t.Errorf("TrackingID = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTrack_NewRoute(t *testing.T) {
	repo := NewKVTrackingRepository(newFakeKVStore(), logger.NewNopLogger())
	ctx := context.Background()
	now := time.Date(2024, 4, 20, 10, 0, 0, 0, time.UTC)

	trackingID, err := repo.Track(ctx, delBomRequest(4599), now)
	if err != nil {
		t.Fatalf("Track failed: %v", err)
	}
	if trackingID != "del-bom-2024-05-01-6e" {
		t.Errorf("trackingID = %q", trackingID)
	}

	route, found := repo.Get(ctx, trackingID)
	if !found {
		t.Fatal("route not found after Track")
	}
	if route.CurrentPrice != 4599 || route.InitialPrice != 4599 {
		t.Errorf("prices = %v/%v, want 4599/4599", route.CurrentPrice, route.InitialPrice)
	}
	if len(route.PriceHistory) != 1 || route.PriceHistory[0].Price != 4599 {
		t.Errorf("unexpected history: %+v", route.PriceHistory)
	}
	if route.AlertEnabled {
		t.Error("alert must start disabled")
	}
	if !route.LastChecked.Equal(now) {
		t.Errorf("lastChecked = %v, want %v", route.LastChecked, now)
	}
}

func TestTrack_OverwritesExisting(t *testing.T) {
	repo := NewKVTrackingRepository(newFakeKVStore(), logger.NewNopLogger())
	ctx := context.Background()
	now := time.Now()

	trackingID, _ := repo.Track(ctx, delBomRequest(4599), now)
	repo.ApplyObservation(ctx, trackingID, 4300, now.Add(time.Hour))
	repo.SetAlertRule(ctx, trackingID, 4000, entity.AlertBelow)

	again, _ := repo.Track(ctx, delBomRequest(5100), now.Add(2*time.Hour))
	if again != trackingID {
		t.Fatalf("re-track produced a different id: %q vs %q", again, trackingID)
	}

	route, _ := repo.Get(ctx, trackingID)
	if len(route.PriceHistory) != 1 {
		t.Errorf("history length = %d, want 1 after re-track", len(route.PriceHistory))
	}
	if route.CurrentPrice != 5100 {
		t.Errorf("currentPrice = %v, want 5100", route.CurrentPrice)
	}
	if route.AlertEnabled {
		t.Error("re-track must reset the alert rule")
	}

	if got := len(repo.List(ctx)); got != 1 {
		t.Errorf("list length = %d, want 1", got)
	}
}

func TestApplyObservation(t *testing.T) {
	repo := NewKVTrackingRepository(newFakeKVStore(), logger.NewNopLogger())
	ctx := context.Background()
	base := time.Date(2024, 4, 20, 10, 0, 0, 0, time.UTC)

	trackingID, _ := repo.Track(ctx, delBomRequest(4599), base)

	// Equal price: lastChecked moves, history does not
	result, found := repo.ApplyObservation(ctx, trackingID, 4599, base.Add(time.Hour))
	if !found {
		t.Fatal("observation on known id reported not found")
	}
	if result.Changed {
		t.Error("equal price must report changed=false")
	}
	if len(result.Route.PriceHistory) != 1 {
		t.Errorf("history grew on equal price: %d entries", len(result.Route.PriceHistory))
	}
	if !result.Route.LastChecked.Equal(base.Add(time.Hour)) {
		t.Error("lastChecked must advance on equal price")
	}

	// Changed price: appended and current
	result, _ = repo.ApplyObservation(ctx, trackingID, 4199, base.Add(2*time.Hour))
	if !result.Changed {
		t.Error("different price must report changed=true")
	}
	if result.PreviousPrice != 4599 {
		t.Errorf("previousPrice = %v, want 4599", result.PreviousPrice)
	}
	if result.Route.CurrentPrice != 4199 {
		t.Errorf("currentPrice = %v, want 4199", result.Route.CurrentPrice)
	}
	if len(result.Route.PriceHistory) != 2 {
		t.Fatalf("history length = %d, want 2", len(result.Route.PriceHistory))
	}
	last := result.Route.PriceHistory[1]
	if last.Price != 4199 || !last.Timestamp.Equal(base.Add(2*time.Hour)) {
		t.Errorf("unexpected last entry: %+v", last)
	}

	if _, found := repo.ApplyObservation(ctx, "missing-id", 100, base); found {
		t.Error("unknown id must report not found")
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	repo := NewKVTrackingRepository(newFakeKVStore(), logger.NewNopLogger())
	ctx := context.Background()

	trackingID, _ := repo.Track(ctx, delBomRequest(4599), time.Now())

	route, _ := repo.Get(ctx, trackingID)
	route.CurrentPrice = 1
	route.PriceHistory[0].Price = 1

	fresh, _ := repo.Get(ctx, trackingID)
	if fresh.CurrentPrice != 4599 || fresh.PriceHistory[0].Price != 4599 {
		t.Error("mutating a returned route leaked into the repository")
	}
}

func TestRemove(t *testing.T) {
	repo := NewKVTrackingRepository(newFakeKVStore(), logger.NewNopLogger())
	ctx := context.Background()
	now := time.Now()

	first, _ := repo.Track(ctx, delBomRequest(4599), now)
	second, _ := repo.Track(ctx, &entity.TrackRequest{
		Origin: "BLR", Destination: "MAA", Date: "2024-06-10", Airline: "UK", Price: 3200,
	}, now)

	if !repo.Remove(ctx, first) {
		t.Error("expected true removing an existing route")
	}
	if repo.Remove(ctx, first) {
		t.Error("expected false removing a missing route")
	}

	remaining := repo.List(ctx)
	if len(remaining) != 1 || remaining[0].ID != second {
		t.Errorf("unexpected remaining routes: %+v", remaining)
	}
}

func TestSetAlertRule_Repo(t *testing.T) {
	repo := NewKVTrackingRepository(newFakeKVStore(), logger.NewNopLogger())
	ctx := context.Background()

	trackingID, _ := repo.Track(ctx, delBomRequest(4599), time.Now())

	if !repo.SetAlertRule(ctx, trackingID, 4000, entity.AlertBelow) {
		t.Fatal("SetAlertRule failed on known id")
	}

	route, _ := repo.Get(ctx, trackingID)
	if !route.AlertEnabled || route.AlertThreshold == nil || *route.AlertThreshold != 4000 {
		t.Errorf("unexpected alert state: %+v", route)
	}
	if route.AlertType != entity.AlertBelow {
		t.Errorf("alertType = %q, want below", route.AlertType)
	}

	// Later rule overwrites the earlier one
	repo.SetAlertRule(ctx, trackingID, 5, entity.AlertChange)
	route, _ = repo.Get(ctx, trackingID)
	if *route.AlertThreshold != 5 || route.AlertType != entity.AlertChange {
		t.Errorf("rule was not overwritten: %+v", route)
	}

	if repo.SetAlertRule(ctx, "missing-id", 100, entity.AlertAbove) {
		t.Error("expected false for unknown id")
	}
}

func TestSnapshotSurvivesReload(t *testing.T) {
	store := newFakeKVStore()
	ctx := context.Background()
	base := time.Date(2024, 4, 20, 10, 0, 0, 0, time.UTC)

	repo := NewKVTrackingRepository(store, logger.NewNopLogger())
	trackingID, _ := repo.Track(ctx, delBomRequest(4599), base)
	repo.ApplyObservation(ctx, trackingID, 4199, base.Add(time.Hour))
	repo.SetAlertRule(ctx, trackingID, -5, entity.AlertChange)

	reloaded := NewKVTrackingRepository(store, logger.NewNopLogger())
	route, found := reloaded.Get(ctx, trackingID)
	if !found {
		t.Fatal("route lost across reload")
	}
	if route.CurrentPrice != 4199 || len(route.PriceHistory) != 2 {
		t.Errorf("unexpected reloaded route: %+v", route)
	}
	if !route.AlertEnabled || route.AlertThreshold == nil || *route.AlertThreshold != -5 {
		t.Errorf("alert rule lost across reload: %+v", route)
	}
}

func TestCorruptSnapshotStartsEmpty(t *testing.T) {
	store := newFakeKVStore()
	store.data[TrackedPricesKey] = []byte("{not json")

	repo := NewKVTrackingRepository(store, logger.NewNopLogger())
	if got := len(repo.List(context.Background())); got != 0 {
		t.Errorf("expected empty repository over corrupt snapshot, got %d routes", got)
	}

	// The repository stays usable and the next write replaces the bad data
	trackingID, err := repo.Track(context.Background(), delBomRequest(4599), time.Now())
	if err != nil {
		t.Fatalf("Track failed after corrupt load: %v", err)
	}

	var routes []*entity.TrackedRoute
	if err := json.Unmarshal(store.data[TrackedPricesKey], &routes); err != nil {
		t.Fatalf("snapshot still corrupt after write: %v", err)
	}
	if len(routes) != 1 || routes[0].ID != trackingID {
		t.Errorf("unexpected snapshot: %+v", routes)
	}
}

func TestPersistFailureIsNotFatal(t *testing.T) {
	store := newFakeKVStore()
	store.setErr = errors.New("store unavailable")
	ctx := context.Background()

	repo := NewKVTrackingRepository(store, logger.NewNopLogger())
	trackingID, err := repo.Track(ctx, delBomRequest(4599), time.Now())
	if err != nil {
		t.Fatalf("Track must succeed despite a persist failure: %v", err)
	}

	result, found := repo.ApplyObservation(ctx, trackingID, 4199, time.Now())
	if !found || !result.Changed {
		t.Error("in-memory state must stay authoritative when the store fails")
	}
	if route, found := repo.Get(ctx, trackingID); !found || route.CurrentPrice != 4199 {
		t.Error("in-memory route must reflect the observation")
	}
}
