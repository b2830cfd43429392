package visitors

import (
	"log"
	"net/http"
	"time"

	"protodesk/grouping"
	"protodesk/models"
	"protodesk/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// fetchAll runs the list query: optional case-insensitive substring search
// OR-ed across name, phone, hotel and driver, newest arrival first.
func (h *Handler) fetchAll(r *http.Request, search string) ([]models.Visitor, error) {
	query := bson.M{}
	if search != "" {
		pattern := utils.EscapeRegex(search)
		query["$or"] = []bson.M{
			{"name": bson.M{"$regex": pattern, "$options": "i"}},
			{"phone": bson.M{"$regex": pattern, "$options": "i"}},
			{"hotel": bson.M{"$regex": pattern, "$options": "i"}},
			{"driver": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}

	cursor, err := h.Store.Visitors.Find(r.Context(), query,
		options.Find().SetSort(bson.D{{Key: "arrival_date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(r.Context())

	var visitors []models.Visitor
	if err := cursor.All(r.Context(), &visitors); err != nil {
		return nil, err
	}
	return visitors, nil
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	visitors, err := h.fetchAll(r, r.URL.Query().Get("search"))
	if err != nil {
		log.Printf("visitors: list failed: %v", err)
		utils.SendError(w, http.StatusInternalServerError, "Failed to fetch visitors")
		return
	}

	out := make([]Wire, 0, len(visitors))
	for _, v := range visitors {
		out = append(out, ToWire(v))
	}
	utils.SendSuccess(w, http.StatusOK, out)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.SendError(w, http.StatusBadRequest, "Invalid visitor ID")
		return
	}

	var visitor models.Visitor
	err = h.Store.Visitors.FindOne(r.Context(), bson.M{"_id": id}).Decode(&visitor)
	if err == mongo.ErrNoDocuments {
		utils.SendError(w, http.StatusNotFound, "Visitor not found")
		return
	}
	if err != nil {
		log.Printf("visitors: get %s failed: %v", id.Hex(), err)
		utils.SendError(w, http.StatusInternalServerError, "Failed to fetch visitor")
		return
	}
	utils.SendSuccess(w, http.StatusOK, ToWire(visitor))
}

type wireWeek struct {
	WeekStart   string      `json:"weekStart"`
	WeekEnd     string      `json:"weekEnd"`
	Unscheduled bool        `json:"unscheduled,omitempty"`
	Parties     []wireParty `json:"parties"`
}

type wireParty struct {
	GroupID string `json:"groupId,omitempty"`
	IsGroup bool   `json:"isGroup"`
	Members []Wire `json:"members"`
}

// Weeks returns the dashboard hierarchy: week buckets newest first, each
// split into travel parties with the leader on top.
func (h *Handler) Weeks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	visitors, err := h.fetchAll(r, r.URL.Query().Get("search"))
	if err != nil {
		log.Printf("visitors: weeks failed: %v", err)
		utils.SendError(w, http.StatusInternalServerError, "Failed to fetch visitors")
		return
	}

	weeks := grouping.ByArrivalWeek(visitors)
	out := make([]wireWeek, 0, len(weeks))
	for _, wk := range weeks {
		ww := wireWeek{
			WeekStart:   formatDate(wk.WeekStart),
			WeekEnd:     formatDate(wk.WeekEnd),
			Unscheduled: wk.Unscheduled(),
		}
		for _, p := range grouping.PartitionByGroup(wk.Visitors) {
			wp := wireParty{GroupID: p.GroupID, IsGroup: p.IsGroup}
			for _, m := range p.Members {
				wp.Members = append(wp.Members, ToWire(m))
			}
			ww.Parties = append(ww.Parties, wp)
		}
		out = append(out, ww)
	}
	utils.SendSuccess(w, http.StatusOK, out)
}

// Stats backs the dashboard stat cards.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	visitors, err := h.fetchAll(r, "")
	if err != nil {
		log.Printf("visitors: stats failed: %v", err)
		utils.SendError(w, http.StatusInternalServerError, "Failed to fetch visitors")
		return
	}

	now := time.Now()
	thisWeek, today := 0, 0
	for _, v := range visitors {
		if grouping.InCurrentWeek(v, now) {
			thisWeek++
		}
		if grouping.ArrivesToday(v, now) {
			today++
		}
	}
	utils.SendSuccess(w, http.StatusOK, utils.M{
		"total":    len(visitors),
		"thisWeek": thisWeek,
		"today":    today,
	})
}
