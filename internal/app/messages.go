package app

import "time"

// TickMsg triggers a frame update.
type TickMsg time.Time

// FetchResultMsg carries the outcome of an external health-data fetch.
type FetchResultMsg struct {
	Values   []float64
	Err      error
	Duration time.Duration
}
