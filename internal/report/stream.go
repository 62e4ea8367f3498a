package report

import (
	"context"
	"fmt"

	"github.com/paulirish/covid-data-model/internal/models"
	rediscommon "github.com/paulirish/covid-data-model/internal/redis"

	"go.uber.org/zap"
)

// StreamEmitter appends each forecast to a Redis stream
type StreamEmitter struct {
	client *rediscommon.Client
	stream string
	logger *zap.Logger
}

// NewStreamEmitter creates a stream emitter
func NewStreamEmitter(client *rediscommon.Client, stream string, logger *zap.Logger) *StreamEmitter {
	return &StreamEmitter{client: client, stream: stream, logger: logger}
}

// Emit publishes the encoded forecast as one stream entry
func (e *StreamEmitter) Emit(ctx context.Context, fc *models.Forecast) error {
	payload, err := Encode(fc)
	if err != nil {
		return fmt.Errorf("failed to encode forecast: %w", err)
	}

	id, err := rediscommon.PublishRawJSONToStream(ctx, e.client, e.stream, payload)
	if err != nil {
		return fmt.Errorf("failed to publish to stream %s: %w", e.stream, err)
	}

	e.logger.Info("Published forecast to stream",
		zap.String("stream", e.stream),
		zap.String("message_id", id),
		zap.String("run_id", fc.RunID),
	)
	return nil
}
