// Package drivers produces the shareable pickup links protocol staff send to
// drivers, plus the public pickup view the link opens.
package drivers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"protodesk/db"
	"protodesk/models"
	"protodesk/utils"

	"github.com/julienschmidt/httprouter"
	qrcode "github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Handler struct {
	Store *db.Store
}

func NewHandler(store *db.Store) *Handler {
	return &Handler{Store: store}
}

func baseURL() string {
	if u := os.Getenv("APP_URL"); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func PickupLink(visitorID string) string {
	return fmt.Sprintf("%s/driver/%s", baseURL(), visitorID)
}

func (h *Handler) findVisitor(r *http.Request, hexID string) (*models.Visitor, int, string) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, http.StatusBadRequest, "Invalid visitor ID"
	}
	var visitor models.Visitor
	err = h.Store.Visitors.FindOne(r.Context(), bson.M{"_id": id}).Decode(&visitor)
	if err == mongo.ErrNoDocuments {
		return nil, http.StatusNotFound, "Visitor not found"
	}
	if err != nil {
		log.Printf("drivers: lookup %s failed: %v", hexID, err)
		return nil, http.StatusInternalServerError, "Failed to fetch visitor"
	}
	return &visitor, 0, ""
}

func clock(c *models.ClockTime) string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func date(v models.Visitor) string {
	if v.ArrivalDate.IsZero() {
		return ""
	}
	return v.ArrivalDate.Format("2006-01-02")
}

// pickupSummary is the driver-facing subset of a visitor record; drivers get
// what they need to meet the flight, nothing else.
func pickupSummary(v models.Visitor) utils.M {
	return utils.M{
		"name":             v.Name,
		"arrivalDate":      date(v),
		"arrivalTime":      clock(v.ArrivalHour),
		"airline":          v.Airline,
		"flightNumber":     v.FlightNumber,
		"hotel":            v.Hotel,
		"driver":           v.Driver,
		"driverPickupTime": clock(v.DriverPickupTime),
	}
}

func (h *Handler) GenerateLink(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		VisitorID string `json:"visitorId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	visitor, code, msg := h.findVisitor(r, input.VisitorID)
	if visitor == nil {
		utils.SendError(w, code, msg)
		return
	}

	utils.SendSuccess(w, http.StatusOK, utils.M{
		"link":    PickupLink(input.VisitorID),
		"visitor": pickupSummary(*visitor),
	})
}

// Pickup is the public page behind the link. No session; rate limited at the
// route level.
func (h *Handler) Pickup(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	visitor, code, msg := h.findVisitor(r, ps.ByName("visitorid"))
	if visitor == nil {
		utils.SendError(w, code, msg)
		return
	}
	utils.SendSuccess(w, http.StatusOK, pickupSummary(*visitor))
}

// QR renders the pickup link as a PNG so staff can hand drivers a scannable
// code instead of a pasted URL.
func (h *Handler) QR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	hexID := ps.ByName("visitorid")
	visitor, code, msg := h.findVisitor(r, hexID)
	if visitor == nil {
		utils.SendError(w, code, msg)
		return
	}

	png, err := qrcode.Encode(PickupLink(hexID), qrcode.Medium, 256)
	if err != nil {
		log.Printf("drivers: qr encode failed: %v", err)
		utils.SendError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
