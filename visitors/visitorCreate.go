package visitors

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"protodesk/middleware"
	"protodesk/models"
	"protodesk/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	visitor, err := payload.ToVisitor()
	if err != nil {
		utils.SendError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now().UTC()
	visitor.CreatedBy = middleware.UserIDFromContext(r.Context())
	visitor.CreatedAt = now
	visitor.UpdatedAt = now

	result, err := h.Store.Visitors.InsertOne(r.Context(), visitor)
	if err != nil {
		log.Printf("visitors: insert failed: %v", err)
		utils.SendError(w, http.StatusInternalServerError, "Failed to create visitor")
		return
	}
	visitor.ID = result.InsertedID.(primitive.ObjectID)

	h.emit(r.Context(), "POST", visitor.ID.Hex())
	utils.SendSuccess(w, http.StatusOK, ToWire(visitor))
}

// CompanionPayload carries a companion's personal details; travel and
// logistics fields are copied from the leader at creation time.
type CompanionPayload struct {
	Name   string                `json:"name"`
	Phone  string                `json:"phone"`
	Notes  string                `json:"notes,omitempty"`
	Photos []models.VisitorPhoto `json:"photos,omitempty"`
}

type groupPayload struct {
	Leader     Payload            `json:"leader"`
	Companions []CompanionPayload `json:"companions"`
}

// newCompanion derives a companion record from the persisted leader: personal
// fields from the payload, travel and logistics fields (and the group id)
// shared with the leader. Validation failures surface here, before any write.
func newCompanion(leader models.Visitor, c CompanionPayload) (models.Visitor, error) {
	if c.Name == "" || c.Phone == "" {
		return models.Visitor{}, errMissingRequired
	}

	companion := leader
	companion.ID = primitive.NilObjectID
	companion.Name = c.Name
	companion.Phone = c.Phone
	companion.Notes = c.Notes
	companion.Photos = c.Photos
	if companion.Photos == nil {
		companion.Photos = []models.VisitorPhoto{}
	}
	companion.IsGroupLeader = false
	return companion, nil
}

func partialFailureMessage(failed, total int) string {
	return fmt.Sprintf("%d of %d companions failed", failed, total)
}

// CreateGroup persists a travel party: the leader first, then the companions
// concurrently with the leader's travel fields and a fresh shared group id.
// Deliberately not transactional — a companion failure leaves the others in
// place and is reported as a partial-success count.
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload groupPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	leader, err := payload.Leader.ToVisitor()
	if err != nil {
		utils.SendError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now().UTC()
	actor := middleware.UserIDFromContext(r.Context())

	if len(payload.Companions) > 0 {
		leader.GroupID = uuid.NewString()
		leader.IsGroupLeader = true
	}
	leader.CreatedBy = actor
	leader.CreatedAt = now
	leader.UpdatedAt = now

	// The leader write has to land before any companion is issued; companions
	// copy its travel fields and group id.
	result, err := h.Store.Visitors.InsertOne(r.Context(), leader)
	if err != nil {
		log.Printf("visitors: group leader insert failed: %v", err)
		utils.SendError(w, http.StatusInternalServerError, "Failed to create visitor")
		return
	}
	leader.ID = result.InsertedID.(primitive.ObjectID)
	h.emit(r.Context(), "POST", leader.ID.Hex())

	var (
		mu     sync.Mutex
		failed int
		wg     sync.WaitGroup
	)
	for _, c := range payload.Companions {
		wg.Add(1)
		go func(c CompanionPayload) {
			defer wg.Done()

			companion, err := newCompanion(leader, c)
			if err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}

			res, err := h.Store.Visitors.InsertOne(r.Context(), companion)
			if err != nil {
				log.Printf("visitors: companion insert failed: %v", err)
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}
			h.emit(r.Context(), "POST", res.InsertedID.(primitive.ObjectID).Hex())
		}(c)
	}
	wg.Wait()

	data := utils.M{
		"leader":            ToWire(leader),
		"groupId":           leader.GroupID,
		"companionsCreated": len(payload.Companions) - failed,
		"companionsFailed":  failed,
	}
	if failed > 0 {
		data["message"] = partialFailureMessage(failed, len(payload.Companions))
	}
	utils.SendSuccess(w, http.StatusOK, data)
}
