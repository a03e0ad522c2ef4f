package infra

import (
	"testing"
	"time"
)

func TestWriteTimeoutOutlastsProvider(t *testing.T) {
	cfg := &Config{
		HTTPWriteTimeout: 30 * time.Second,
		ProviderTimeout:  120 * time.Second,
	}
	got := writeTimeoutFor(cfg)
	if got <= cfg.ProviderTimeout {
		t.Fatalf("write timeout %s must outlast the provider budget %s", got, cfg.ProviderTimeout)
	}

	cfg = &Config{
		HTTPWriteTimeout: 180 * time.Second,
		ProviderTimeout:  120 * time.Second,
	}
	if got := writeTimeoutFor(cfg); got != 180*time.Second {
		t.Fatalf("a sufficient configured timeout must be kept, got %s", got)
	}
}
