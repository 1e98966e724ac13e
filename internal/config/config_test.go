package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load returned nil config")
	}
	if cfg.EventsTopic != "fieldsafe-incident-events" {
		t.Errorf("EventsTopic = %q, want %q", cfg.EventsTopic, "fieldsafe-incident-events")
	}
	if cfg.IntentsTopic != "fieldsafe-delivery-intents" {
		t.Errorf("IntentsTopic = %q, want %q", cfg.IntentsTopic, "fieldsafe-delivery-intents")
	}
	if cfg.KafkaGroupID != "fieldsafe-routing-worker" {
		t.Errorf("KafkaGroupID = %q, want %q", cfg.KafkaGroupID, "fieldsafe-routing-worker")
	}
	if cfg.SweepInterval != "1h" {
		t.Errorf("SweepInterval = %q, want %q", cfg.SweepInterval, "1h")
	}
	if cfg.MetricsAddr != ":9102" {
		t.Errorf("MetricsAddr = %q, want %q", cfg.MetricsAddr, ":9102")
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want empty", cfg.DatabaseURL)
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("DATABASE_URL", "postgres://localhost/fieldsafe")
	os.Setenv("EVENTS_TOPIC", "custom-events")
	os.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DatabaseURL != "postgres://localhost/fieldsafe" {
		t.Errorf("DatabaseURL = %q, want override", cfg.DatabaseURL)
	}
	if cfg.EventsTopic != "custom-events" {
		t.Errorf("EventsTopic = %q, want %q", cfg.EventsTopic, "custom-events")
	}
	brokers := cfg.KafkaBrokersList()
	if len(brokers) != 2 || brokers[0] != "broker-1:9092" || brokers[1] != "broker-2:9092" {
		t.Errorf("KafkaBrokersList = %v, want two trimmed brokers", brokers)
	}
}

func TestLoad_InvalidSweepInterval(t *testing.T) {
	os.Clearenv()
	os.Setenv("SWEEP_INTERVAL", "not-a-duration")

	cfg, err := Load()
	if err == nil {
		t.Fatal("Load should return error for invalid SWEEP_INTERVAL")
	}
	if cfg != nil {
		t.Error("Load should return nil config on error")
	}
}

func TestSweepEvery_ValidDuration(t *testing.T) {
	os.Clearenv()
	os.Setenv("SWEEP_INTERVAL", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.SweepEvery(); got != 30*time.Minute {
		t.Errorf("SweepEvery = %v, want %v", got, 30*time.Minute)
	}
}

func TestSweepEvery_DefaultOnZero(t *testing.T) {
	os.Clearenv()
	os.Setenv("SWEEP_INTERVAL", "0s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.SweepEvery(); got != time.Hour {
		t.Errorf("SweepEvery = %v, want %v (default)", got, time.Hour)
	}
}

func TestKafkaBrokersList_Empty(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if brokers := cfg.KafkaBrokersList(); brokers != nil {
		t.Errorf("KafkaBrokersList = %v, want nil for empty config", brokers)
	}
}
