package models

import "time"

// Index is a visitor-change message published on the Redis event channel
// and replayed into the v4activity audit collection.
type Index struct {
	EntityType string `json:"entity_type" bson:"entity_type"`
	Method     string `json:"method" bson:"method"`
	EntityID   string `json:"entity_id" bson:"entity_id"`
	ActorID    string `json:"actor_id,omitempty" bson:"actor_id,omitempty"`
}

type Activity struct {
	EntityType string    `bson:"entity_type" json:"entityType"`
	EntityID   string    `bson:"entity_id" json:"entityId"`
	Method     string    `bson:"method" json:"method"`
	ActorID    string    `bson:"actor_id,omitempty" json:"actorId,omitempty"`
	Timestamp  time.Time `bson:"timestamp" json:"timestamp"`
}
