// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

package services

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
)

// Subscriber is the event bus surface the consumer needs; satisfied by
// *events.Bus.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
}

// EventLogService drains domain event topics and logs every message. It
// doubles as the bus's default consumer, so published events are always
// consumed even when no external sink is attached.
type EventLogService struct {
	bus    Subscriber
	topics []string
	logger zerolog.Logger
}

// NewEventLogService creates the consumer for the given topics.
func NewEventLogService(bus Subscriber, topics []string, logger zerolog.Logger) *EventLogService {
	return &EventLogService{
		bus:    bus,
		topics: topics,
		logger: logger.With().Str("component", "event_log").Logger(),
	}
}

// Serve implements suture.Service. It subscribes to every topic and logs
// messages until the context is canceled.
func (s *EventLogService) Serve(ctx context.Context) error {
	merged := make(chan *message.Message)

	for _, topic := range s.topics {
		ch, err := s.bus.Subscribe(ctx, topic)
		if err != nil {
			return err
		}

		go func(topic string, ch <-chan *message.Message) {
			for msg := range ch {
				if msg == nil {
					return
				}
				msg.Metadata.Set("topic", topic)
				select {
				case merged <- msg:
				case <-ctx.Done():
					msg.Nack()
					return
				}
			}
		}(topic, ch)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-merged:
			s.logger.Debug().
				Str("topic", msg.Metadata.Get("topic")).
				Str("message_id", msg.UUID).
				RawJSON("payload", msg.Payload).
				Msg("domain event")
			msg.Ack()
		}
	}
}

// String implements fmt.Stringer; suture uses it in log messages.
func (s *EventLogService) String() string {
	return "event-log"
}
