package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

// PublishJSONToStream appends data to a stream as a single "data" field
func PublishJSONToStream(ctx context.Context, client *redis.Client, stream string, data interface{}) (string, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return PublishRawJSONToStream(ctx, client, stream, jsonBytes)
}

// PublishRawJSONToStream appends an already-encoded payload to a stream
func PublishRawJSONToStream(ctx context.Context, client *redis.Client, stream string, payload []byte) (string, error) {
	return client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"data":      string(payload),
			"timestamp": time.Now().Unix(),
		},
	}).Result()
}
