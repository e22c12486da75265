package config

import "time"

const (
	// Rolling window
	DefaultCapacity = 60              // Samples kept in the window
	TickInterval    = 1 * time.Second // One simulation tick

	// Simulation
	SimBase      = 0.8 // Mean RR interval (s)
	SimAmplitude = 0.3 // Peak deviation from the mean (s)
	SimPeriod    = 30  // Ticks per full oscillation

	// Health range (seconds, inclusive)
	HealthyMin   = 0.6
	HealthyMax   = 1.0
	HealthyIdeal = 0.8 // Score peaks here
	ScoreSpan    = 0.4 // |value-ideal| at which the score reaches 0

	// Chart
	ChartMin = 0.3 // Bottom of the chart y-range (s)
	ChartMax = 1.4 // Top of the chart y-range (s)

	// External health data
	FetchWindow  = 24 * time.Hour   // How far back to query
	FetchTimeout = 10 * time.Second // Per-fetch deadline

	// Redis health store
	RedisKey = "rr:intervals"

	// NATS health collaborator
	NATSSubject = "health.rr.latest"

	// App
	AppName    = "RR-MONITOR"
	AppVersion = "1.0"
	TargetFPS  = 10
)
