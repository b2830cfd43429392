package visitors

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"protodesk/models"
	"protodesk/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// updateDoc builds the $set/$unset pair for a full replace of the mutable
// fields. Audit fields stay untouched; detaching from a group removes the
// groupId and leader flag instead of storing empty values.
func updateDoc(v models.Visitor) bson.M {
	set := bson.M{
		"name":                    v.Name,
		"phone":                   v.Phone,
		"arrival_date":            v.ArrivalDate,
		"arrival_hour":            v.ArrivalHour,
		"airline":                 v.Airline,
		"flight_number":           v.FlightNumber,
		"driver":                  v.Driver,
		"hotel":                   v.Hotel,
		"departure_date":          v.DepartureDate,
		"departure_hour":          v.DepartureHour,
		"departure_airline":       v.DepartureAirline,
		"departure_flight_number": v.DepartureFlightNumber,
		"driver_pickup_time":      v.DriverPickupTime,
		"notes":                   v.Notes,
		"photos":                  v.Photos,
		"updatedAt":               time.Now().UTC(),
	}

	update := bson.M{"$set": set}
	if v.GroupID == "" {
		update["$unset"] = bson.M{"groupId": "", "isGroupLeader": ""}
	} else {
		set["groupId"] = v.GroupID
		set["isGroupLeader"] = v.IsGroupLeader
	}
	return update
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.SendError(w, http.StatusBadRequest, "Invalid visitor ID")
		return
	}

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

	var updated models.Visitor
	err = h.Store.Visitors.FindOneAndUpdate(
		r.Context(),
		bson.M{"_id": id},
		updateDoc(visitor),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		utils.SendError(w, http.StatusNotFound, "Visitor not found")
		return
	}
	if err != nil {
		log.Printf("visitors: update %s failed: %v", id.Hex(), err)
		utils.SendError(w, http.StatusInternalServerError, "Failed to update visitor")
		return
	}

	h.emit(r.Context(), "PUT", id.Hex())
	utils.SendSuccess(w, http.StatusOK, ToWire(updated))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.SendError(w, http.StatusBadRequest, "Invalid visitor ID")
		return
	}

	result, err := h.Store.Visitors.DeleteOne(r.Context(), bson.M{"_id": id})
	if err != nil {
		log.Printf("visitors: delete %s failed: %v", id.Hex(), err)
		utils.SendError(w, http.StatusInternalServerError, "Failed to delete visitor")
		return
	}
	if result.DeletedCount == 0 {
		utils.SendError(w, http.StatusNotFound, "Visitor not found")
		return
	}

	h.emit(r.Context(), "DELETE", id.Hex())
	utils.SendSuccess(w, http.StatusOK, utils.M{"deletedCount": result.DeletedCount})
}
