package bootstrap

import (
	"context"
	"testing"

	"github.com/stackdio/console/config"
	"github.com/stackdio/console/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectRedis_ConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.RedisConfig
		want string
	}{
		{name: "direct without uri", cfg: config.RedisConfig{URI: " "}, want: "requires a URI"},
		{name: "sentinel without nodes", cfg: config.RedisConfig{UseSentinel: true}, want: "sentinel node"},
		{name: "cluster without nodes", cfg: config.RedisConfig{UseCluster: true}, want: "at least one address"},
		{name: "bad url", cfg: config.RedisConfig{URI: "redis://:%zz@localhost"}, want: "parse redis url"},
		{name: "unreachable", cfg: config.RedisConfig{URI: "127.0.0.1:1"}, want: "ping redis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ConnectRedis(context.Background(), RedisOptions{Redis: tt.cfg})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConnectRedis_Direct(t *testing.T) {
	addr, ok := testutil.GetTestRedisAddr(t)
	if !ok {
		t.Skip("redis not available")
	}

	client, err := ConnectRedis(context.Background(), RedisOptions{Redis: config.RedisConfig{URI: addr}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Ping(context.Background()).Err())
}

func TestNormalizeAddrs(t *testing.T) {
	got := normalizeAddrs([]string{" a:1 ", "", "b:2"})
	assert.Equal(t, []string{"a:1", "b:2"}, got)
}
