package mq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"protodesk/db"
	"protodesk/models"

	"github.com/redis/go-redis/v9"
)

const channel = "visitor-events"

// Emitter publishes visitor-change events to Redis. Handlers fire these after
// successful writes; delivery is best effort and never fails the request.
type Emitter struct {
	Conn *redis.Client
}

func NewEmitter(conn *redis.Client) *Emitter {
	return &Emitter{Conn: conn}
}

func (e *Emitter) Emit(ctx context.Context, event models.Index) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("mq: marshal failed: %v", err)
		return
	}
	if err := e.Conn.Publish(ctx, channel, data).Err(); err != nil {
		log.Printf("mq: publish failed: %v", err)
	}
}

// StartWorker consumes the event channel, appends each event to the audit
// collection and forwards it to notify (the websocket hub). Runs until ctx is
// cancelled.
func StartWorker(ctx context.Context, conn *redis.Client, store *db.Store, notify func(models.Index)) {
	sub := conn.Subscribe(ctx, channel)
	defer sub.Close()
	ch := sub.Channel()

	log.Println("mq: worker listening for visitor events")
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event models.Index
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("mq: bad event payload: %v", err)
				continue
			}

			entry := models.Activity{
				EntityType: event.EntityType,
				EntityID:   event.EntityID,
				Method:     event.Method,
				ActorID:    event.ActorID,
				Timestamp:  time.Now().UTC(),
			}
			if _, err := store.Activity.InsertOne(ctx, entry); err != nil {
				log.Printf("mq: activity insert failed: %v", err)
			}

			if notify != nil {
				notify(event)
			}
		}
	}
}
