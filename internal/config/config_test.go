package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_StorageDriverValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("default postgres", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StorageDriver != StoragePostgres {
			t.Fatalf("unexpected default storage driver: %q", cfg.StorageDriver)
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "redis")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid STORAGE_DRIVER")
		}
	})
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_ConfidenceThresholds(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.MatchMinConfidence != 70 {
			t.Fatalf("unexpected default min confidence: %d", cfg.MatchMinConfidence)
		}
		if cfg.MatchFallbackConfidence != 60 {
			t.Fatalf("unexpected default fallback confidence: %d", cfg.MatchFallbackConfidence)
		}
	})

	t.Run("fallback above min rejected", func(t *testing.T) {
		t.Setenv("MATCH_MIN_CONFIDENCE", "50")
		t.Setenv("MATCH_FALLBACK_CONFIDENCE", "80")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when fallback confidence exceeds min confidence")
		}
	})
}

func TestLoad_PushPolicyValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("default push_loses", func(t *testing.T) {
		t.Setenv("SETTLE_PUSH_POLICY", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.PushPolicy != PushPolicyLoses {
			t.Fatalf("unexpected default push policy: %q", cfg.PushPolicy)
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("SETTLE_PUSH_POLICY", "push_wins")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid SETTLE_PUSH_POLICY")
		}
	})
}

func TestLoad_WeekOneStartParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("LEAGUE_WEEK_ONE_START", "2025-09-02T00:00:00Z")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	want := time.Date(2025, time.September, 2, 0, 0, 0, 0, time.UTC)
	if !cfg.WeekOneStart.Equal(want) {
		t.Fatalf("unexpected week one start: %s", cfg.WeekOneStart)
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_SERVICE_NAME", "sidebet-worker-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "sidebet-worker-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_OddsFeedConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("disabled by default", func(t *testing.T) {
		t.Setenv("ODDSFEED_ENABLED", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.OddsFeedEnabled {
			t.Fatalf("expected OddsFeedEnabled=false by default")
		}
		if cfg.OddsFeedSportKey != "americanfootball_nfl" {
			t.Fatalf("unexpected default sport key: %q", cfg.OddsFeedSportKey)
		}
	})

	t.Run("enabled requires api key", func(t *testing.T) {
		t.Setenv("ODDSFEED_ENABLED", "true")
		t.Setenv("ODDSFEED_API_KEY", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when ODDSFEED_ENABLED=true without ODDSFEED_API_KEY")
		}
	})

	t.Run("enabled with valid values", func(t *testing.T) {
		t.Setenv("ODDSFEED_ENABLED", "true")
		t.Setenv("ODDSFEED_API_KEY", "key-123")
		t.Setenv("ODDSFEED_TIMEOUT", "15s")
		t.Setenv("ODDSFEED_RATE_LIMIT_PER_SEC", "0.5")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.OddsFeedEnabled {
			t.Fatalf("expected OddsFeedEnabled=true")
		}
		if cfg.OddsFeedTimeout != 15*time.Second {
			t.Fatalf("unexpected odds feed timeout: %s", cfg.OddsFeedTimeout)
		}
		if cfg.OddsFeedRateLimitPerSec != 0.5 {
			t.Fatalf("unexpected odds feed rate limit: %f", cfg.OddsFeedRateLimitPerSec)
		}
	})
}

func TestLoad_NotifierConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("enabled requires webhook url", func(t *testing.T) {
		t.Setenv("NOTIFIER_ENABLED", "true")
		t.Setenv("NOTIFIER_WEBHOOK_URL", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when NOTIFIER_ENABLED=true without NOTIFIER_WEBHOOK_URL")
		}
	})

	t.Run("enabled with webhook url", func(t *testing.T) {
		t.Setenv("NOTIFIER_ENABLED", "true")
		t.Setenv("NOTIFIER_WEBHOOK_URL", "https://hooks.example.com/sidebet")
		t.Setenv("NOTIFIER_TOKEN", "token-123")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.NotifierEnabled {
			t.Fatalf("expected NotifierEnabled=true")
		}
		if cfg.NotifierToken != "token-123" {
			t.Fatalf("unexpected notifier token")
		}
	})
}

func TestLoad_CacheConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("CACHE_ENABLED", "")
		t.Setenv("CACHE_TTL", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.CacheEnabled {
			t.Fatalf("expected cache enabled by default")
		}
		if cfg.CacheTTL != 60*time.Second {
			t.Fatalf("unexpected default cache ttl: %s", cfg.CacheTTL)
		}
	})

	t.Run("invalid ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid CACHE_TTL")
		}
	})
}

func TestLoad_DBDisablePreparedBinaryResultParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("default true", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.DBDisablePreparedBinary {
			t.Fatalf("expected DBDisablePreparedBinary=true by default")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "not-bool")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid DB_DISABLE_PREPARED_BINARY_RESULT")
		}
	})
}
