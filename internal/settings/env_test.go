package settings_test

import (
	"context"
	"os"
	"testing"

	"github.com/tokengate/tokengate/internal/settings"
)

func TestEnvSource_Defaults(t *testing.T) {
	os.Unsetenv(settings.EnvServerURL)
	os.Unsetenv(settings.EnvDisableSSLValidation)
	os.Unsetenv(settings.EnvCreateUserIfNotExists)
	os.Unsetenv(settings.EnvAdminGroup)

	cfg, err := settings.NewEnvSource().Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Enabled() {
		t.Error("feature should be disabled with no server URL")
	}
	if cfg.DisableSSLValidation || cfg.CreateUserIfNotExists || cfg.AdminGroup != "" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestEnvSource_ReadsFreshValues(t *testing.T) {
	os.Setenv(settings.EnvServerURL, "https://idp.example")
	os.Setenv(settings.EnvCreateUserIfNotExists, "true")
	os.Setenv(settings.EnvAdminGroup, "admins")
	defer os.Unsetenv(settings.EnvServerURL)
	defer os.Unsetenv(settings.EnvCreateUserIfNotExists)
	defer os.Unsetenv(settings.EnvAdminGroup)

	src := settings.NewEnvSource()
	cfg, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Enabled() || !cfg.CreateUserIfNotExists || cfg.AdminGroup != "admins" {
		t.Errorf("cfg = %+v", cfg)
	}

	// No caching: a changed variable shows up on the next Load.
	os.Setenv(settings.EnvServerURL, "")
	cfg, err = src.Load(context.Background())
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if cfg.Enabled() {
		t.Error("config change did not take effect on next Load")
	}
}

func TestEnvSource_InvalidBoolIsFalse(t *testing.T) {
	os.Setenv(settings.EnvDisableSSLValidation, "definitely")
	defer os.Unsetenv(settings.EnvDisableSSLValidation)

	cfg, err := settings.NewEnvSource().Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DisableSSLValidation {
		t.Error("unparseable bool should read as false")
	}
}
