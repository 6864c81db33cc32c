package mq

import (
	"context"
	"encoding/json"
	"log"

	"github.com/vivek-vk7/AgroSustain/models"
	"github.com/vivek-vk7/AgroSustain/rdx"
)

const eventChannel = "marketplace-events"

// Emit publishes a marketplace event (moderation decisions, order
// lifecycle changes) to the Redis channel. Failures are logged and
// dropped; emission never blocks the request that triggered it.
func Emit(eventName string, content models.Index) {
	data, err := json.Marshal(content)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event content: %v", err)
		return
	}

	if err := rdx.Conn.Publish(context.Background(), eventChannel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish %s: %v", eventName, err)
	}
}

// StartEventWorker consumes marketplace events and logs them. Runs as
// a goroutine from main.
func StartEventWorker() {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, eventChannel)
	ch := sub.Channel()

	log.Println("[EventWorker] Listening for marketplace events...")

	for msg := range ch {
		var event models.Index
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[EventWorker] Failed to parse event: %v", err)
			continue
		}
		log.Printf("[EventWorker] %s %s %s", event.Method, event.EntityType, event.EntityId)
	}
}
