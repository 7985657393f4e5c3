package settings

import (
	"context"
	"os"
	"strconv"
)

// Environment variables read by EnvSource.
const (
	EnvServerURL             = "OIDC_SERVER_URL"
	EnvDisableSSLValidation  = "OIDC_DISABLE_SSL_VALIDATION"
	EnvCreateUserIfNotExists = "OIDC_CREATE_USER_IF_NOT_EXISTS"
	EnvAdminGroup            = "OIDC_ADMIN_GROUP"
)

// EnvSource reads the OIDC options from environment variables on every Load.
type EnvSource struct{}

// NewEnvSource creates an environment-backed settings source.
func NewEnvSource() *EnvSource {
	return &EnvSource{}
}

func (s *EnvSource) Load(ctx context.Context) (Config, error) {
	return Config{
		ServerURL:             os.Getenv(EnvServerURL),
		DisableSSLValidation:  envBool(EnvDisableSSLValidation),
		CreateUserIfNotExists: envBool(EnvCreateUserIfNotExists),
		AdminGroup:            os.Getenv(EnvAdminGroup),
	}, nil
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return false
	}
	return v
}
