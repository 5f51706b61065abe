package config

import (
	"testing"
	"time"
)

func TestParseMethods(t *testing.T) {
	m := parseMethods("get, POST ,head")
	for _, want := range []string{"GET", "POST", "HEAD"} {
		if !m[want] {
			t.Fatalf("expected %s to be enabled, got %v", want, m)
		}
	}
	if m["DELETE"] {
		t.Fatalf("DELETE must not be enabled")
	}
	if len(parseMethods("")) != 0 {
		t.Fatalf("empty spec must yield no methods")
	}
}

func TestEnvHelpersDefaults(t *testing.T) {
	if got := envStr("LEASE_TEST_UNSET", "fallback"); got != "fallback" {
		t.Fatalf("envStr default: got %q", got)
	}
	if got := envInt("LEASE_TEST_UNSET", 7); got != 7 {
		t.Fatalf("envInt default: got %d", got)
	}
	if got := envDur("LEASE_TEST_UNSET", time.Minute); got != time.Minute {
		t.Fatalf("envDur default: got %v", got)
	}
	if got := envBool("LEASE_TEST_UNSET", true); !got {
		t.Fatalf("envBool default: got %v", got)
	}
}

func TestEnvHelpersParse(t *testing.T) {
	t.Setenv("LEASE_TEST_INT", "42")
	if got := envInt("LEASE_TEST_INT", 7); got != 42 {
		t.Fatalf("envInt: got %d", got)
	}
	t.Setenv("LEASE_TEST_DUR", "90s")
	if got := envDur("LEASE_TEST_DUR", time.Minute); got != 90*time.Second {
		t.Fatalf("envDur: got %v", got)
	}
	t.Setenv("LEASE_TEST_BOOL", "off")
	if got := envBool("LEASE_TEST_BOOL", true); got {
		t.Fatalf("envBool: expected false for off")
	}
	t.Setenv("LEASE_TEST_INT", "nope")
	if got := envInt("LEASE_TEST_INT", 7); got != 7 {
		t.Fatalf("envInt must fall back on malformed input, got %d", got)
	}
}

func TestRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	if cfg.Capacity != 1 {
		t.Fatalf("capacity not clamped: %d", cfg.Capacity)
	}
	if cfg.RefillTokens != 1 {
		t.Fatalf("refill tokens not clamped: %d", cfg.RefillTokens)
	}
	if cfg.TTL < 5*cfg.RefillInterval {
		t.Fatalf("ttl not raised above refill interval: %v", cfg.TTL)
	}
}
