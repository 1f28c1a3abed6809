package config

import (
	"testing"

	"github.com/you/storefront/internal/config"
)

// LoadTestConfig builds a configuration for in-process E2E tests. Codes are
// echoed back, cookies work over plain http and the resend window is off
// unless an override turns it on.
func LoadTestConfig(t *testing.T, overrides ...func(*config.ConfigFile)) *config.Config {
	t.Helper()

	f := config.Defaults()
	f.App.Mode = config.ModeDevelopment
	f.App.GinMode = "test"
	f.Database.DSN = "file::memory:"
	f.OTP.ResendWindow = "0s"
	f.Session.CookieSecure = false
	f.Twilio.FromNumber = "+15551234567"
	f.Log.Level = "error"
	for _, o := range overrides {
		o(f)
	}

	cfg, err := config.FromFile(f)
	if err != nil {
		t.Fatalf("Failed to load test configuration: %v", err)
	}
	validateTestConfig(t, cfg)
	return cfg
}

// validateTestConfig guards against pointing tests at something real
func validateTestConfig(t *testing.T, cfg *config.Config) {
	t.Helper()

	if !cfg.EchoOTP() {
		t.Fatal("E2E tests need development mode to read issued codes")
	}
	if cfg.CookieSecure {
		t.Fatal("secure cookies are not sent over the plain http test server")
	}
}
