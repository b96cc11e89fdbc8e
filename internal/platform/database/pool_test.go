package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReturnsNilWithoutURL(t *testing.T) {
	pool, err := New(Config{})
	require.NoError(t, err)
	assert.Nil(t, pool)
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{URL: "postgres://example"}
	cfg.applyDefaults()

	assert.Equal(t, defaultMaxOpenConns, cfg.MaxOpenConns)
	assert.Equal(t, defaultMaxIdleConns, cfg.MaxIdleConns)
	assert.Equal(t, defaultConnMaxLifetime, cfg.ConnMaxLifetime)
	assert.Equal(t, defaultPingTimeout, cfg.PingTimeout)

	cfg = Config{URL: "postgres://example", MaxOpenConns: 3, PingTimeout: time.Second}
	cfg.applyDefaults()
	assert.Equal(t, 3, cfg.MaxOpenConns)
	assert.Equal(t, time.Second, cfg.PingTimeout)
}

func TestHealthOnUnconfiguredPool(t *testing.T) {
	var pool *Pool
	assert.Error(t, pool.Health(context.Background()))
}
