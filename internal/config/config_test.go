package config

import (
	"errors"
	"testing"
	"time"

	"crm-insights/internal/analytics"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATA_PATH", t.TempDir())
	t.Setenv("FORECAST_HORIZON", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ForecastHorizon != 6 {
		t.Errorf("expected horizon 6, got %d", cfg.ForecastHorizon)
	}
	if cfg.ForecastPeriod != analytics.PeriodMonth {
		t.Errorf("expected period month, got %s", cfg.ForecastPeriod)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("expected cache ttl 5m, got %s", cfg.CacheTTL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATA_PATH", t.TempDir())
	t.Setenv("FORECAST_HORIZON", "12")
	t.Setenv("FORECAST_PERIOD", "quarter")
	t.Setenv("FORECAST_SEASONAL", "true")
	t.Setenv("CACHE_TTL_SECONDS", "30")
	t.Setenv("SNAPSHOT_PATH", "/data/snapshot.json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	opts := cfg.ForecastOptions()
	if opts.Horizon != 12 || opts.Period != analytics.PeriodQuarter || !opts.Seasonal {
		t.Errorf("unexpected forecast options: %+v", opts)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("expected cache ttl 30s, got %s", cfg.CacheTTL)
	}
	if cfg.SnapshotPath != "/data/snapshot.json" {
		t.Errorf("unexpected snapshot path %q", cfg.SnapshotPath)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"non numeric horizon", "FORECAST_HORIZON", "six"},
		{"zero horizon", "FORECAST_HORIZON", "0"},
		{"unknown period", "FORECAST_PERIOD", "fortnight"},
		{"non numeric ttl", "CACHE_TTL_SECONDS", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATA_PATH", t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if !errors.Is(err, analytics.ErrInvalidConfiguration) {
				t.Errorf("expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}
