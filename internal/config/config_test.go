package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	cfg := Load()

	assert.Equal(t, "mongo", cfg.OrderStore)
	assert.Equal(t, "sqlite", cfg.SQLDriver)
	assert.Equal(t, 15*time.Second, cfg.UnreadCacheTTL)
	assert.Equal(t, 30, cfg.PollRatePerMin)
	assert.Equal(t, "remote", cfg.AuthMode)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ORDER_STORE", "memory")
	t.Setenv("UNREAD_CACHE_TTL", "30s")
	t.Setenv("RABBIT_ENABLED", "false")
	t.Setenv("AUTH_MODE", "jwt")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "memory", cfg.OrderStore)
	assert.Equal(t, 30*time.Second, cfg.UnreadCacheTTL)
	assert.False(t, cfg.RabbitEnabled)
	assert.Equal(t, "jwt", cfg.AuthMode)
}
