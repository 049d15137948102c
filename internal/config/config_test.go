package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.ClinicTimezone != "Europe/Paris" {
		t.Errorf("ClinicTimezone = %q, want Europe/Paris", cfg.ClinicTimezone)
	}
	if cfg.OpenHour != 9 || cfg.CloseHour != 17 {
		t.Errorf("business hours = %d-%d, want 9-17", cfg.OpenHour, cfg.CloseHour)
	}
	if cfg.CalendarTimeout != 10*time.Second {
		t.Errorf("CalendarTimeout = %v, want 10s", cfg.CalendarTimeout)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v, want 24h", cfg.SessionTTL)
	}
	if cfg.EmbeddingModel != "text-embedding-004" {
		t.Errorf("EmbeddingModel = %q", cfg.EmbeddingModel)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CLINIC_TIMEZONE", "Europe/Brussels")
	t.Setenv("CLINIC_OPEN_HOUR", "8")
	t.Setenv("CLINIC_CLOSE_HOUR", "18")
	t.Setenv("CALENDAR_TIMEOUT", "3s")
	t.Setenv("REDIS_TLS", "true")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.ClinicTimezone != "Europe/Brussels" {
		t.Errorf("ClinicTimezone = %q", cfg.ClinicTimezone)
	}
	if cfg.OpenHour != 8 || cfg.CloseHour != 18 {
		t.Errorf("business hours = %d-%d, want 8-18", cfg.OpenHour, cfg.CloseHour)
	}
	if cfg.CalendarTimeout != 3*time.Second {
		t.Errorf("CalendarTimeout = %v, want 3s", cfg.CalendarTimeout)
	}
	if !cfg.RedisTLS {
		t.Error("RedisTLS should be true")
	}
}

func TestInvalidNumericFallsBack(t *testing.T) {
	t.Setenv("CLINIC_OPEN_HOUR", "not-a-number")
	t.Setenv("CALENDAR_TIMEOUT", "soon")

	cfg := Load()

	if cfg.OpenHour != 9 {
		t.Errorf("OpenHour = %d, want default 9", cfg.OpenHour)
	}
	if cfg.CalendarTimeout != 10*time.Second {
		t.Errorf("CalendarTimeout = %v, want default 10s", cfg.CalendarTimeout)
	}
}
