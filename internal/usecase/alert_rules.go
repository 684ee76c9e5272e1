package usecase

import (
	"math"

	"farewatch-service/internal/domain/entity"
)

// ShouldTrigger decides whether a price alert fires. It is pure and
// deterministic: no state, no side effects. An unrecognized alert type never
// triggers. A nil percentChange (previous price was zero) never satisfies a
// change rule because there is no meaningful percentage to compare.
func ShouldTrigger(alertType entity.AlertType, threshold float64, currentPrice float64, percentChange *float64) bool {
	switch alertType {
	case entity.AlertBelow:
		return currentPrice <= threshold
	case entity.AlertAbove:
		return currentPrice >= threshold
	case entity.AlertChange:
		if percentChange == nil {
			return false
		}
		return math.Abs(*percentChange) >= threshold
	default:
		return false
	}
}
