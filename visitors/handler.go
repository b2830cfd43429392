package visitors

import (
	"context"

	"protodesk/db"
	"protodesk/middleware"
	"protodesk/models"
	"protodesk/mq"
)

type Handler struct {
	Store  *db.Store
	Events *mq.Emitter
}

func NewHandler(store *db.Store, events *mq.Emitter) *Handler {
	return &Handler{Store: store, Events: events}
}

// emit publishes a change event for the audit trail and the live dashboard.
// Runs on its own goroutine; a lost event never fails the request.
func (h *Handler) emit(ctx context.Context, method, id string) {
	actor := middleware.UserIDFromContext(ctx)
	go h.Events.Emit(context.Background(), models.Index{
		EntityType: "visitor",
		Method:     method,
		EntityID:   id,
		ActorID:    actor,
	})
}
