// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/feedlab/curator/internal/events"
)

func TestEventLogServiceConsumesAndLogs(t *testing.T) {
	bus := events.NewBus(zerolog.Nop())
	defer bus.Close()

	var buf bytes.Buffer
	logger := zerolog.New(zerolog.SyncWriter(&buf)).Level(zerolog.DebugLevel)

	svc := NewEventLogService(bus, []string{events.TopicCurationCompleted}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	// Give the subscription a moment to attach before publishing.
	time.Sleep(20 * time.Millisecond)

	if err := bus.Publish(events.TopicCurationCompleted, events.CurationCompleted{
		UserID:    "user-1",
		ItemCount: 5,
	}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for !strings.Contains(buf.String(), "user-1") {
		select {
		case <-deadline:
			t.Fatalf("event never logged: %q", buf.String())
		case <-time.After(10 * time.Millisecond):
		}
	}

	if !strings.Contains(buf.String(), events.TopicCurationCompleted) {
		t.Errorf("log line missing topic: %q", buf.String())
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestEventLogServiceString(t *testing.T) {
	t.Parallel()

	svc := NewEventLogService(nil, nil, zerolog.Nop())
	if svc.String() != "event-log" {
		t.Errorf("String() = %q", svc.String())
	}
}
