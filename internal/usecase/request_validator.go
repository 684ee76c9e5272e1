package usecase

import (
	"fmt"
	"strings"

	"farewatch-service/internal/domain/entity"

	"github.com/go-playground/validator/v10"
)

// RequestValidator normalizes and validates inbound requests at the service
// boundary so malformed input never reaches the tracking repository
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator creates a new request validator
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{
		validate: validator.New(),
	}
}

// ValidateTrackRequest normalizes and validates a track request in place
func (v *RequestValidator) ValidateTrackRequest(req *entity.TrackRequest) error {
	req.Origin = strings.TrimSpace(req.Origin)
	req.Destination = strings.TrimSpace(req.Destination)
	req.Date = strings.TrimSpace(req.Date)
	req.Airline = strings.TrimSpace(req.Airline)

	if err := v.validate.Struct(req); err != nil {
		return fmt.Errorf("invalid track request: %w", err)
	}
	return nil
}

// ValidateObserveRequest validates a price observation request
func (v *RequestValidator) ValidateObserveRequest(req *entity.ObserveRequest) error {
	if err := v.validate.Struct(req); err != nil {
		return fmt.Errorf("invalid observe request: %w", err)
	}
	return nil
}

// ValidateAlertRuleRequest normalizes and validates an alert rule request
func (v *RequestValidator) ValidateAlertRuleRequest(req *entity.AlertRuleRequest) error {
	req.Type = strings.ToLower(strings.TrimSpace(req.Type))

	if err := v.validate.Struct(req); err != nil {
		return fmt.Errorf("invalid alert rule request: %w", err)
	}
	return nil
}
