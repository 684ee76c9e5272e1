package usecase

import (
	"math"

	"farewatch-service/internal/domain/entity"
)

const (
	// trendWindow is how many of the most recent history entries the trend
	// classification looks at
	trendWindow = 5
	// trendBandPercent is the percent change beyond which a trend stops
	// being "stable"
	trendBandPercent = 5.0
)

// ComputeStats derives summary statistics from a price history. It never
// mutates the history it reads and returns nil for an empty history.
func ComputeStats(history []entity.PricePoint) *entity.PriceStats {
	if len(history) == 0 {
		return nil
	}

	min := history[0].Price
	max := history[0].Price
	sum := 0.0
	for _, point := range history {
		if point.Price < min {
			min = point.Price
		}
		if point.Price > max {
			max = point.Price
		}
		sum += point.Price
	}

	return &entity.PriceStats{
		Min:     min,
		Max:     max,
		Avg:     Round2(sum / float64(len(history))),
		Current: history[len(history)-1].Price,
		Trend:   computeTrend(history),
	}
}

// computeTrend classifies recent price movement over at most the last
// trendWindow entries. Fewer than two points is always stable.
func computeTrend(history []entity.PricePoint) entity.Trend {
	if len(history) < 2 {
		return entity.TrendStable
	}

	recent := history
	if len(recent) > trendWindow {
		recent = recent[len(recent)-trendWindow:]
	}

	first := recent[0].Price
	last := recent[len(recent)-1].Price

	if first == 0 {
		// No percentage baseline; classify by direction alone
		if last > first {
			return entity.TrendIncreasing
		}
		return entity.TrendStable
	}

	change := (last - first) / first * 100
	if change > trendBandPercent {
		return entity.TrendIncreasing
	}
	if change < -trendBandPercent {
		return entity.TrendDecreasing
	}
	return entity.TrendStable
}

// Round2 rounds to two decimal places
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}
