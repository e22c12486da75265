package health

import (
	"context"
	"errors"
)

var (
	// ErrUnauthorized means the health store refused access.
	ErrUnauthorized = errors.New("health data access not authorized")
	// ErrUnavailable means the health store could not be reached or answered
	// with an error.
	ErrUnavailable = errors.New("health data unavailable")
)

// Fetcher supplies the most recent RR intervals in seconds, oldest first. An
// empty result with a nil error means there is no data in the queried window.
type Fetcher interface {
	FetchLatestIntervals(ctx context.Context) ([]float64, error)
}

// StaticFetcher returns a fixed batch. Useful for tests and for feeding
// values from the command line.
type StaticFetcher struct {
	Values []float64
	Err    error
}

func (f StaticFetcher) FetchLatestIntervals(ctx context.Context) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.Err != nil {
		return nil, f.Err
	}
	out := make([]float64, len(f.Values))
	copy(out, f.Values)
	return out, nil
}

func reverse(values []float64) {
	for i, j := 0, len(values)-1; i < j; i, j = i+1, j-1 {
		values[i], values[j] = values[j], values[i]
	}
}
