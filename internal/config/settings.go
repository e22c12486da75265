package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	ErrInvalidCapacity = errors.New("capacity must be positive")
	ErrInvalidInterval = errors.New("interval must be positive")
	ErrUnknownSource   = errors.New("unknown source")
	ErrUnknownView     = errors.New("unknown view")
	ErrInvalidValue    = errors.New("invalid interval value")
)

// Data sources.
const (
	SourceSim    = "sim"
	SourceRedis  = "redis"
	SourceNATS   = "nats"
	SourceStatic = "static"
)

// Views.
const (
	ViewList  = "list"
	ViewChart = "chart"
)

// EnvPrefix is prepended to environment overrides, e.g. RRMON_CAPACITY.
const EnvPrefix = "RRMON"

// Settings is the runtime configuration assembled from flags, environment and
// an optional config file.
type Settings struct {
	Source       string        `mapstructure:"source"`
	Capacity     int           `mapstructure:"capacity"`
	Interval     time.Duration `mapstructure:"interval"`
	Seed         bool          `mapstructure:"seed"`
	View         string        `mapstructure:"view"`
	Window       time.Duration `mapstructure:"window"`
	FetchTimeout time.Duration `mapstructure:"fetch-timeout"`
	Values       string        `mapstructure:"values"`

	RedisAddr     string `mapstructure:"redis-addr"`
	RedisPassword string `mapstructure:"redis-password"`
	RedisDB       int    `mapstructure:"redis-db"`
	RedisKey      string `mapstructure:"redis-key"`

	NATSURL     string `mapstructure:"nats-url"`
	NATSSubject string `mapstructure:"nats-subject"`

	MetricsAddr string `mapstructure:"metrics-addr"`
	LogFile     string `mapstructure:"log-file"`
	LogLevel    string `mapstructure:"log-level"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("source", SourceSim)
	v.SetDefault("capacity", DefaultCapacity)
	v.SetDefault("interval", TickInterval)
	v.SetDefault("seed", true)
	v.SetDefault("view", ViewList)
	v.SetDefault("window", FetchWindow)
	v.SetDefault("fetch-timeout", FetchTimeout)
	v.SetDefault("redis-addr", "127.0.0.1:6379")
	v.SetDefault("redis-key", RedisKey)
	v.SetDefault("nats-url", "nats://127.0.0.1:4222")
	v.SetDefault("nats-subject", NATSSubject)
	v.SetDefault("log-file", "rr-monitor.log")
	v.SetDefault("log-level", "info")
}

// Load reads the optional config file and environment into a validated
// Settings. Flags must already be bound to v.
func Load(v *viper.Viper, configPath string) (*Settings, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", configPath, err)
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the settings for values the app cannot run with.
func (s *Settings) Validate() error {
	if s.Capacity <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCapacity, s.Capacity)
	}
	if s.Interval <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidInterval, s.Interval)
	}
	switch s.Source {
	case SourceSim, SourceRedis, SourceNATS, SourceStatic:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSource, s.Source)
	}
	switch s.View {
	case ViewList, ViewChart:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownView, s.View)
	}
	if _, err := s.StaticValues(); err != nil {
		return err
	}
	if s.FetchTimeout <= 0 {
		s.FetchTimeout = FetchTimeout
	}
	if s.Window <= 0 {
		s.Window = FetchWindow
	}
	return nil
}

// StaticValues parses the comma-separated Values list.
func (s *Settings) StaticValues() ([]float64, error) {
	if strings.TrimSpace(s.Values) == "" {
		return nil, nil
	}
	parts := strings.Split(s.Values, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidValue, p)
		}
		out = append(out, v)
	}
	return out, nil
}
