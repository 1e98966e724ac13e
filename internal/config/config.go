// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// DatabaseURL is the Postgres DSN; required by cmd/migrate, cmd/seed, and cmd/worker.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// IdPPublicKey is the PEM-encoded public key of the external identity provider,
	// or a path to a PEM file; used to verify session tokens when building an Actor.
	IdPPublicKey string `mapstructure:"IDP_PUBLIC_KEY"`
	// IdPIssuer is the expected iss claim on identity-provider tokens.
	IdPIssuer string `mapstructure:"IDP_ISSUER"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`

	// KafkaBrokers is a comma-separated list of Kafka broker addresses (e.g. "localhost:9092").
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// EventsTopic is the Kafka topic the worker consumes incident events from.
	EventsTopic string `mapstructure:"EVENTS_TOPIC"`
	// IntentsTopic is the Kafka topic the worker produces delivery intents to.
	IntentsTopic string `mapstructure:"INTENTS_TOPIC"`
	// KafkaGroupID is the consumer group ID for the routing worker.
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`

	// SweepInterval is how often the worker runs the certificate expiry sweep (e.g. "1h").
	// Grant listings reconcile on read regardless; the sweep only bounds staleness
	// for paths that never list.
	SweepInterval string `mapstructure:"SWEEP_INTERVAL"`
	// MetricsAddr is the address the worker's Prometheus /metrics endpoint listens on.
	MetricsAddr string `mapstructure:"METRICS_ADDR"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("IDP_PUBLIC_KEY", "")
	v.SetDefault("IDP_ISSUER", "")
	v.SetDefault("APP_ENV", "")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("EVENTS_TOPIC", "fieldsafe-incident-events")
	v.SetDefault("INTENTS_TOPIC", "fieldsafe-delivery-intents")
	v.SetDefault("KAFKA_GROUP_ID", "fieldsafe-routing-worker")
	v.SetDefault("SWEEP_INTERVAL", "1h")
	v.SetDefault("METRICS_ADDR", ":9102")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.EventsTopic == "" || cfg.IntentsTopic == "" {
		return nil, errors.New("config: EVENTS_TOPIC and INTENTS_TOPIC must be set")
	}
	if _, err := time.ParseDuration(cfg.SweepInterval); cfg.SweepInterval != "" && err != nil {
		return nil, errors.New("config: SWEEP_INTERVAL must be a valid duration (e.g. 1h)")
	}

	return &cfg, nil
}

// SweepEvery parses SweepInterval as a time.Duration. Returns 1h if unset or invalid.
func (c *Config) SweepEvery() time.Duration {
	d, err := time.ParseDuration(c.SweepInterval)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// KafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if the event pipeline is enabled (non-empty list) and to create readers/writers.
func (c *Config) KafkaBrokersList() []string {
	if c == nil || c.KafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.KafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
