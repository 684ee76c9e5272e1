package usecase

import (
	"testing"

	"farewatch-service/internal/domain/entity"
)

func TestValidateTrackRequest(t *testing.T) {
	v := NewRequestValidator()

	req := &entity.TrackRequest{
		Origin:      "  DEL ",
		Destination: "BOM",
		Date:        "2024-05-01",
		Airline:     "6E",
		Price:       4599,
	}
	if err := v.ValidateTrackRequest(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Origin != "DEL" {
		t.Errorf("origin not trimmed: %q", req.Origin)
	}

	tests := []struct {
		name string
		req  entity.TrackRequest
	}{
		{"blank origin", entity.TrackRequest{Origin: "  ", Destination: "BOM", Date: "2024-05-01", Airline: "6E", Price: 4599}},
		{"missing destination", entity.TrackRequest{Origin: "DEL", Date: "2024-05-01", Airline: "6E", Price: 4599}},
		{"missing date", entity.TrackRequest{Origin: "DEL", Destination: "BOM", Airline: "6E", Price: 4599}},
		{"missing airline", entity.TrackRequest{Origin: "DEL", Destination: "BOM", Date: "2024-05-01", Price: 4599}},
		{"negative price", entity.TrackRequest{Origin: "DEL", Destination: "BOM", Date: "2024-05-01", Airline: "6E", Price: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			if err := v.ValidateTrackRequest(&req); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	// Zero is a legal price
	zero := entity.TrackRequest{Origin: "DEL", Destination: "BOM", Date: "2024-05-01", Airline: "6E", Price: 0}
	if err := v.ValidateTrackRequest(&zero); err != nil {
		t.Errorf("zero price rejected: %v", err)
	}
}

func TestValidateObserveRequest(t *testing.T) {
	v := NewRequestValidator()

	if err := v.ValidateObserveRequest(&entity.ObserveRequest{Price: 4199}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := v.ValidateObserveRequest(&entity.ObserveRequest{Price: 0}); err != nil {
		t.Errorf("zero price rejected: %v", err)
	}
	if err := v.ValidateObserveRequest(&entity.ObserveRequest{Price: -5}); err == nil {
		t.Error("expected error for negative price")
	}
}

func TestValidateAlertRuleRequest(t *testing.T) {
	v := NewRequestValidator()

	req := &entity.AlertRuleRequest{Threshold: -5, Type: " Change "}
	if err := v.ValidateAlertRuleRequest(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Type != "change" {
		t.Errorf("type not normalized: %q", req.Type)
	}

	for _, typ := range []string{"below", "above", "change"} {
		if err := v.ValidateAlertRuleRequest(&entity.AlertRuleRequest{Threshold: 1, Type: typ}); err != nil {
			t.Errorf("%q rejected: %v", typ, err)
		}
	}

	for _, typ := range []string{"", "sideways", "percentile"} {
		if err := v.ValidateAlertRuleRequest(&entity.AlertRuleRequest{Threshold: 1, Type: typ}); err == nil {
			t.Errorf("expected error for type %q", typ)
		}
	}
}
