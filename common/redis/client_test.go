package redis

import (
	"context"
	"testing"

	"rainpath-cases/common/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_Unreachable(t *testing.T) {
	client, err := Connect(context.Background(), &config.RedisConfig{Addr: "127.0.0.1:1"})
	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "redis ping 127.0.0.1:1")
}

func TestClose_Nil(t *testing.T) {
	assert.NoError(t, Close(nil))
}
