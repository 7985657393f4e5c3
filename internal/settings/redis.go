package settings

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Hash fields read by RedisSource. The names match the option keys the host
// application writes.
const (
	fieldServerURL             = "openid_connect_server_url"
	fieldDisableSSLValidation  = "disable_ssl_validation"
	fieldCreateUserIfNotExists = "create_user_if_not_exists"
	fieldAdminGroup            = "admin_group"
)

// RedisSource reads the OIDC options from a Redis hash on every Load, for
// hosts that manage settings centrally. A missing hash yields the zero Config
// (feature disabled), not an error.
type RedisSource struct {
	client *redis.Client
	key    string
}

// NewRedisSource creates a Redis-backed settings source reading the hash at
// the given key.
func NewRedisSource(client *redis.Client, key string) *RedisSource {
	return &RedisSource{client: client, key: key}
}

func (s *RedisSource) Load(ctx context.Context) (Config, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return Config{}, err
	}

	return Config{
		ServerURL:             fields[fieldServerURL],
		DisableSSLValidation:  parseBool(fields[fieldDisableSSLValidation]),
		CreateUserIfNotExists: parseBool(fields[fieldCreateUserIfNotExists]),
		AdminGroup:            fields[fieldAdminGroup],
	}, nil
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false
	}
	return b
}
