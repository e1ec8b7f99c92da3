// Scentmatch - Fragrance Catalog Matching and Recommendation
// Copyright 2026 Scentmatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

// Package events provides the in-process pub/sub bus. Catalog mutations
// publish to the catalog.updated topic; the rebuild service subscribes
// and refreshes the engine model.
package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/scentmatch/scentmatch/internal/logging"
)

// TopicCatalogUpdated carries catalog-change notifications.
const TopicCatalogUpdated = "catalog.updated"

// Message aliases the Watermill message type so subscribers do not
// import Watermill directly.
type Message = message.Message

// CatalogUpdated is the payload of a catalog.updated event.
type CatalogUpdated struct {
	// Operation is the mutation that triggered the event: create,
	// update, delete, or import.
	Operation string `json:"operation"`

	// FragranceID identifies the mutated item; empty for bulk imports.
	FragranceID string `json:"fragrance_id,omitempty"`
}

// Bus is an in-process pub/sub wrapper around a Watermill gochannel.
// Subscribers registered after a publish do not receive earlier events.
type Bus struct {
	pubsub *gochannel.GoChannel
}

// NewBus creates the bus. Watermill logs through the zerolog-backed
// slog adapter.
func NewBus() *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 16},
			watermill.NewSlogLogger(logging.NewSlogLogger()),
		),
	}
}

// PublishCatalogUpdated publishes a catalog-change event.
func (b *Bus) PublishCatalogUpdated(event CatalogUpdated) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal catalog event: %w", err)
	}
	msg := message.NewMessage(uuid.NewString(), payload)
	if err := b.pubsub.Publish(TopicCatalogUpdated, msg); err != nil {
		return fmt.Errorf("publish %s: %w", TopicCatalogUpdated, err)
	}
	return nil
}

// SubscribeCatalogUpdated returns a channel of catalog-change messages.
// The subscription ends when ctx is canceled.
func (b *Bus) SubscribeCatalogUpdated(ctx context.Context) (<-chan *Message, error) {
	messages, err := b.pubsub.Subscribe(ctx, TopicCatalogUpdated)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", TopicCatalogUpdated, err)
	}
	return messages, nil
}

// DecodeCatalogUpdated parses a catalog-change message payload.
func DecodeCatalogUpdated(msg *Message) (CatalogUpdated, error) {
	var event CatalogUpdated
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return CatalogUpdated{}, fmt.Errorf("decode catalog event: %w", err)
	}
	return event, nil
}

// Close shuts the bus down, closing all subscriber channels.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
