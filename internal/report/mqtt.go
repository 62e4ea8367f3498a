package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/paulirish/covid-data-model/internal/models"

	"go.uber.org/zap"
)

// Publisher is satisfied by *mqtt.Client
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

// MQTTEmitter publishes the latest forecast per region as a retained message
type MQTTEmitter struct {
	publisher   Publisher
	topicPrefix string
	qos         byte
	logger      *zap.Logger
}

// NewMQTTEmitter creates an MQTT emitter
func NewMQTTEmitter(publisher Publisher, topicPrefix string, qos byte, logger *zap.Logger) *MQTTEmitter {
	return &MQTTEmitter{
		publisher:   publisher,
		topicPrefix: strings.TrimSuffix(topicPrefix, "/"),
		qos:         qos,
		logger:      logger,
	}
}

// Emit publishes to <prefix>/<country>/<province>
func (e *MQTTEmitter) Emit(ctx context.Context, fc *models.Forecast) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := Encode(fc)
	if err != nil {
		return fmt.Errorf("failed to encode forecast: %w", err)
	}

	topic := Topic(e.topicPrefix, fc.Region.Region)
	if err := e.publisher.Publish(topic, e.qos, true, payload); err != nil {
		return err
	}

	e.logger.Info("Published forecast to MQTT",
		zap.String("topic", topic),
		zap.String("run_id", fc.RunID),
		zap.Int("bytes", len(payload)),
	)
	return nil
}

// Topic builds the region topic; the province level is omitted when empty
func Topic(prefix string, region models.Region) string {
	parts := []string{prefix, topicLevel(region.CountryRegion)}
	if region.ProvinceState != "" {
		parts = append(parts, topicLevel(region.ProvinceState))
	}
	return strings.Join(parts, "/")
}

// wildcards and separators are not allowed inside a level
var topicLevelReplacer = strings.NewReplacer("/", "_", "+", "_", "#", "_")

func topicLevel(name string) string {
	return topicLevelReplacer.Replace(name)
}
