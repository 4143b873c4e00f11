package api

import (
	"testing"
	"time"
)

func TestRetryConfig_ShouldRetry(t *testing.T) {
	cfg := DefaultRetryConfig()

	tests := []struct {
		name       string
		attempt    int
		statusCode int
		want       bool
	}{
		{"retryable 503 first attempt", 0, 503, true},
		{"retryable 429", 1, 429, true},
		{"retryable 408", 0, 408, true},
		{"non-retryable 404", 0, 404, false},
		{"non-retryable 400", 0, 400, false},
		{"success", 0, 200, false},
		{"retries exhausted", 3, 503, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.ShouldRetry(tt.attempt, tt.statusCode); got != tt.want {
				t.Errorf("ShouldRetry(%d, %d) = %v, want %v", tt.attempt, tt.statusCode, got, tt.want)
			}
		})
	}
}

func TestRetryConfig_Delay_Bounds(t *testing.T) {
	cfg := DefaultRetryConfig()

	for attempt := 0; attempt < 10; attempt++ {
		delay := cfg.Delay(attempt)
		// Jitter may push slightly past MaxDelay
		ceiling := time.Duration(float64(cfg.MaxDelay) * (1 + cfg.Jitter))
		if delay < 0 || delay > ceiling {
			t.Errorf("Delay(%d) = %v, outside [0, %v]", attempt, delay, ceiling)
		}
	}
}

func TestRetryConfig_Delay_Grows(t *testing.T) {
	cfg := DefaultRetryConfig()
	cfg.Jitter = 0

	if cfg.Delay(0) != cfg.BaseDelay {
		t.Errorf("Delay(0) = %v, want %v", cfg.Delay(0), cfg.BaseDelay)
	}
	if cfg.Delay(1) != 2*cfg.BaseDelay {
		t.Errorf("Delay(1) = %v, want %v", cfg.Delay(1), 2*cfg.BaseDelay)
	}
	if cfg.Delay(20) != cfg.MaxDelay {
		t.Errorf("Delay(20) = %v, want cap %v", cfg.Delay(20), cfg.MaxDelay)
	}
}
