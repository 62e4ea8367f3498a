package report

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/paulirish/covid-data-model/internal/config"
	"github.com/paulirish/covid-data-model/internal/models"
	rediscommon "github.com/paulirish/covid-data-model/internal/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStreamEmitter_Emit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := rediscommon.NewRedisClient(&config.RedisConfig{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	fc := sampleForecast()
	emitter := NewStreamEmitter(client, "forecast:results", zap.NewNop())

	require.NoError(t, emitter.Emit(ctx, fc))
	require.NoError(t, emitter.Emit(ctx, fc))

	entries, err := client.XRange(ctx, "forecast:results", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	data, ok := entries[0].Values["data"].(string)
	require.True(t, ok)
	assert.Contains(t, entries[0].Values, "timestamp")

	var got models.Forecast
	require.NoError(t, json.Unmarshal([]byte(data), &got))
	assert.Equal(t, fc.RunID, got.RunID)
	assert.Equal(t, fc.Region, got.Region)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, int64(5588), got.Rows[1].NewInfected)
	assert.Nil(t, got.Rows[1].ActualReported)
	assert.True(t, fc.Rows[0].Date.Equal(got.Rows[0].Date))
}

func TestStreamEmitter_ServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := rediscommon.NewRedisClient(&config.RedisConfig{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	err := NewStreamEmitter(client, "forecast:results", zap.NewNop()).Emit(context.Background(), sampleForecast())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forecast:results")
}
