package rr

import (
	"math"
	"time"

	"rr-monitor.klederson.com/internal/config"
)

// Sample is a single RR interval reading. Value is in seconds.
type Sample struct {
	Timestamp time.Time
	Value     float64
}

// BPM converts the interval to beats per minute. Returns 0 for non-positive
// intervals.
func (s Sample) BPM() float64 {
	if s.Value <= 0 {
		return 0
	}
	return 60 / s.Value
}

// Classification places an interval relative to the healthy range.
type Classification int

const (
	Healthy Classification = iota
	BelowRange
	AboveRange
)

func (c Classification) String() string {
	switch c {
	case BelowRange:
		return "Below"
	case AboveRange:
		return "Above"
	default:
		return "Healthy"
	}
}

// Classify reports where the sample falls. Both range bounds count as Healthy.
func Classify(s Sample) Classification {
	return ClassifyValue(s.Value)
}

// ClassifyValue is Classify for a bare value.
func ClassifyValue(v float64) Classification {
	switch {
	case v < config.HealthyMin:
		return BelowRange
	case v > config.HealthyMax:
		return AboveRange
	default:
		return Healthy
	}
}

// HealthinessScore maps a value to [0, 1]: 1 at the ideal interval, falling
// linearly to 0 at ScoreSpan away from it.
func HealthinessScore(v float64) float64 {
	score := 1 - math.Abs(v-config.HealthyIdeal)/config.ScoreSpan
	if score < 0 || math.IsNaN(score) {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
