// Package export renders a week's arrival schedule as a printable PDF for
// the airport desk.
package export

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"protodesk/db"
	"protodesk/grouping"
	"protodesk/models"
	"protodesk/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Handler struct {
	Store *db.Store
}

func NewHandler(store *db.Store) *Handler {
	return &Handler{Store: store}
}

func clock(c *models.ClockTime) string {
	if c == nil {
		return "-"
	}
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// WeeklySchedule writes the arrivals of one Sunday-to-Saturday window as a
// PDF. ?week=YYYY-MM-DD picks any date inside the wanted week; it defaults
// to the current one.
func (h *Handler) WeeklySchedule(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	anchor := time.Now()
	if q := r.URL.Query().Get("week"); q != "" {
		parsed, err := time.Parse("2006-01-02", q)
		if err != nil {
			utils.SendError(w, http.StatusBadRequest, "invalid week, want YYYY-MM-DD")
			return
		}
		anchor = parsed
	}
	weekStart := grouping.WeekStart(anchor)
	weekEnd := grouping.WeekEnd(anchor)

	cursor, err := h.Store.Visitors.Find(r.Context(), bson.M{
		"arrival_date": bson.M{"$gte": weekStart, "$lte": weekEnd},
	}, options.Find().SetSort(bson.D{{Key: "arrival_date", Value: 1}}))
	if err != nil {
		log.Printf("export: query failed: %v", err)
		utils.SendError(w, http.StatusInternalServerError, "Failed to fetch visitors")
		return
	}
	defer cursor.Close(r.Context())

	var visitors []models.Visitor
	if err := cursor.All(r.Context(), &visitors); err != nil {
		log.Printf("export: decode failed: %v", err)
		utils.SendError(w, http.StatusInternalServerError, "Failed to fetch visitors")
		return
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Protocol Department - Weekly Arrivals", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Protocol Department - Arrivals")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Week %s to %s (%d visitors)",
		weekStart.Format("Jan 02"), weekEnd.Format("Jan 02, 2006"), len(visitors)))
	pdf.Ln(12)

	widths := []float64{48, 32, 24, 20, 20, 60, 30, 22}
	headers := []string{"Name", "Phone", "Flight", "Date", "Time", "Hotel", "Driver", "Pickup"}

	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for i, head := range headers {
			pdf.CellFormat(widths[i], 8, head, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 10)
	}

	row := func(v models.Visitor, marker string) {
		cells := []string{
			marker + v.Name,
			v.Phone,
			v.Airline + " " + v.FlightNumber,
			v.ArrivalDate.Format("Mon 02"),
			clock(v.ArrivalHour),
			v.Hotel,
			v.Driver,
			clock(v.DriverPickupTime),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 7, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	writeHeader()
	for _, party := range grouping.PartitionByGroup(visitors) {
		if party.IsGroup {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 6, fmt.Sprintf("Group of %d travelers", len(party.Members)), "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 10)
			for i, m := range party.Members {
				marker := "  "
				if i == 0 && m.IsGroupLeader {
					marker = "* "
				}
				row(m, marker)
			}
			continue
		}
		for _, m := range party.Members {
			row(m, "")
		}
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=arrivals-%s.pdf", weekStart.Format("2006-01-02")))
	if err := pdf.Output(w); err != nil {
		log.Printf("export: pdf output failed: %v", err)
	}
}
