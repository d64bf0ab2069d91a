package db

import (
	"testing"

	"postline/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectRedisFailureLeavesClientNil(t *testing.T) {
	RedisClient = nil

	// Port 1 is never a Redis server; the ping must fail fast.
	err := ConnectRedis(&config.Config{
		RedisHost: "127.0.0.1",
		RedisPort: "1",
	})
	require.Error(t, err)

	// A failed connect must not leave a dead client behind: downstream
	// consumers treat nil as "caching disabled".
	assert.Nil(t, RedisClient)
}
