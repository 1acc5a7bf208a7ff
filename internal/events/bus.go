// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

// Package events carries the curation domain events over an in-process
// watermill pub/sub channel, decoupling the curation core from whatever
// transport consumes its events.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/feedlab/curator/internal/metrics"
)

// Event topics.
const (
	TopicCurationCompleted  = "curation.completed"
	TopicCurationFailed     = "curation.failed"
	TopicTrendingUpdated    = "trending.updated"
	TopicPreferencesUpdated = "preferences.updated"
	TopicQualityAnalyzed    = "quality.analyzed"
)

// CurationCompleted is published after every successful curation request.
type CurationCompleted struct {
	UserID    string        `json:"user_id"`
	ItemCount int           `json:"item_count"`
	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
}

// CurationFailed is published when a curation request fails.
type CurationFailed struct {
	UserID    string    `json:"user_id"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// TrendingUpdated is published after every trending snapshot recompute.
type TrendingUpdated struct {
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

// PreferencesUpdated is published after a preference-update batch applies.
type PreferencesUpdated struct {
	UserID       string    `json:"user_id"`
	Interactions int       `json:"interactions"`
	Timestamp    time.Time `json:"timestamp"`
}

// QualityAnalyzed is published after a quality analysis completes.
type QualityAnalyzed struct {
	ContentID string    `json:"content_id"`
	Overall   float64   `json:"overall"`
	Timestamp time.Time `json:"timestamp"`
}

// Bus is the in-process event bus. Publishing never blocks request
// handling: messages are buffered and slow subscribers drop behind rather
// than stalling publishers.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger zerolog.Logger
}

// NewBus creates an event bus with a bounded per-subscriber buffer.
func NewBus(logger zerolog.Logger) *Bus {
	l := logger.With().Str("component", "event_bus").Logger()

	pubsub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: 256,
			Persistent:          false,
		},
		watermillAdapter{logger: l},
	)

	return &Bus{
		pubsub: pubsub,
		logger: l,
	}
}

// Publish marshals the payload to JSON and publishes it on topic.
func (b *Bus) Publish(topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		metrics.EventPublishErrors.WithLabelValues(topic).Inc()
		return fmt.Errorf("marshal event payload: %w", err)
	}

	msg := message.NewMessage(uuid.NewString(), data)
	if err := b.pubsub.Publish(topic, msg); err != nil {
		metrics.EventPublishErrors.WithLabelValues(topic).Inc()
		return fmt.Errorf("publish %s: %w", topic, err)
	}

	metrics.EventsPublished.WithLabelValues(topic).Inc()
	return nil
}

// Subscribe returns the message stream for a topic. Messages must be Acked
// or Nacked by the consumer.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	ch, err := b.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}
	return ch, nil
}

// Close shuts the bus down, closing all subscriber channels.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}

// watermillAdapter bridges watermill's logger interface onto zerolog.
type watermillAdapter struct {
	logger zerolog.Logger
}

func (a watermillAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.event(a.logger.Error().Err(err), fields).Msg(msg)
}

func (a watermillAdapter) Info(msg string, fields watermill.LogFields) {
	a.event(a.logger.Debug(), fields).Msg(msg)
}

func (a watermillAdapter) Debug(msg string, fields watermill.LogFields) {
	a.event(a.logger.Debug(), fields).Msg(msg)
}

func (a watermillAdapter) Trace(msg string, fields watermill.LogFields) {
	a.event(a.logger.Trace(), fields).Msg(msg)
}

func (a watermillAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	ctx := a.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return watermillAdapter{logger: ctx.Logger()}
}

func (a watermillAdapter) event(e *zerolog.Event, fields watermill.LogFields) *zerolog.Event {
	for k, v := range fields {
		e = e.Interface(k, v)
	}
	return e
}
