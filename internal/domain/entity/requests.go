// internal/domain/entity/requests.go
package entity

// TrackRequest asks the tracker to start (or restart) tracking a route
type TrackRequest struct {
	Origin      string  `json:"origin" validate:"required"`
	Destination string  `json:"destination" validate:"required"`
	Date        string  `json:"date" validate:"required"`
	Airline     string  `json:"airline" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
}

// ObserveRequest reports a fresh price sample for a tracked route
type ObserveRequest struct {
	Price float64 `json:"price" validate:"gte=0"`
}

// AlertRuleRequest enables alerting on a tracked route
type AlertRuleRequest struct {
	Threshold float64 `json:"threshold"`
	Type      string  `json:"type" validate:"required,oneof=below above change"`
}
