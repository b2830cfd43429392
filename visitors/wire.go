package visitors

import (
	"errors"
	"fmt"
	"time"

	"protodesk/models"
)

// Payload is the flat-string wire shape clients send and receive. Dates are
// "YYYY-MM-DD", times are 24h "HH:MM"; the storage side keeps structured
// sub-documents, and the two transforms below must round-trip losslessly.
type Payload struct {
	Name                  string                `json:"name"`
	Phone                 string                `json:"phone"`
	ArrivalDate           string                `json:"arrivalDate"`
	ArrivalTime           string                `json:"arrivalTime"`
	Airline               string                `json:"airline"`
	FlightNumber          string                `json:"flightNumber"`
	Driver                string                `json:"driver"`
	Hotel                 string                `json:"hotel"`
	DepartureDate         string                `json:"departureDate"`
	DepartureTime         string                `json:"departureTime"`
	DepartureAirline      string                `json:"departureAirline"`
	DepartureFlightNumber string                `json:"departureFlightNumber"`
	DriverPickupTime      string                `json:"driverPickupTime"`
	Notes                 string                `json:"notes,omitempty"`
	Photos                []models.VisitorPhoto `json:"photos,omitempty"`
	GroupID               string                `json:"groupId,omitempty"`
	IsGroupLeader         bool                  `json:"isGroupLeader,omitempty"`
}

// Wire is the response shape: the payload fields plus identity and audit
// stamps.
type Wire struct {
	ID string `json:"_id"`
	Payload
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

const dateLayout = "2006-01-02"

var errMissingRequired = errors.New("name and phone are required")

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// parseClock turns "HH:MM" into a stored {hour, minute} pair. An empty string
// stays nil so it comes back as "" instead of "00:00". Only the exact
// zero-padded form is accepted; "9:5" or trailing text would otherwise be
// silently rewritten on the way back out.
func parseClock(s string) (*models.ClockTime, error) {
	if s == "" {
		return nil, nil
	}
	if len(s) != 5 || s[2] != ':' {
		return nil, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return nil, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	return &models.ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func formatClock(c *models.ClockTime) string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ToVisitor validates a wire payload and produces the storage document.
// Malformed dates are rejected here rather than defaulted, so a typo can
// never silently land a visitor in the wrong week.
func (p Payload) ToVisitor() (models.Visitor, error) {
	var v models.Visitor

	if p.Name == "" || p.Phone == "" {
		return v, errMissingRequired
	}

	arrival, err := parseDate(p.ArrivalDate)
	if err != nil {
		return v, fmt.Errorf("arrivalDate: %w", err)
	}
	departure, err := parseDate(p.DepartureDate)
	if err != nil {
		return v, fmt.Errorf("departureDate: %w", err)
	}
	arrivalHour, err := parseClock(p.ArrivalTime)
	if err != nil {
		return v, fmt.Errorf("arrivalTime: %w", err)
	}
	departureHour, err := parseClock(p.DepartureTime)
	if err != nil {
		return v, fmt.Errorf("departureTime: %w", err)
	}
	pickup, err := parseClock(p.DriverPickupTime)
	if err != nil {
		return v, fmt.Errorf("driverPickupTime: %w", err)
	}

	v = models.Visitor{
		Name:                  p.Name,
		Phone:                 p.Phone,
		ArrivalDate:           arrival,
		ArrivalHour:           arrivalHour,
		Airline:               p.Airline,
		FlightNumber:          p.FlightNumber,
		Driver:                p.Driver,
		Hotel:                 p.Hotel,
		DepartureDate:         departure,
		DepartureHour:         departureHour,
		DepartureAirline:      p.DepartureAirline,
		DepartureFlightNumber: p.DepartureFlightNumber,
		DriverPickupTime:      pickup,
		Notes:                 p.Notes,
		Photos:                p.Photos,
		GroupID:               p.GroupID,
		IsGroupLeader:         p.IsGroupLeader,
	}
	if v.Photos == nil {
		v.Photos = []models.VisitorPhoto{}
	}
	// a visitor outside a group never carries the leader flag
	if v.GroupID == "" {
		v.IsGroupLeader = false
	}
	return v, nil
}

func ToWire(v models.Visitor) Wire {
	w := Wire{
		ID: v.ID.Hex(),
		Payload: Payload{
			Name:                  v.Name,
			Phone:                 v.Phone,
			ArrivalDate:           formatDate(v.ArrivalDate),
			ArrivalTime:           formatClock(v.ArrivalHour),
			Airline:               v.Airline,
			FlightNumber:          v.FlightNumber,
			Driver:                v.Driver,
			Hotel:                 v.Hotel,
			DepartureDate:         formatDate(v.DepartureDate),
			DepartureTime:         formatClock(v.DepartureHour),
			DepartureAirline:      v.DepartureAirline,
			DepartureFlightNumber: v.DepartureFlightNumber,
			DriverPickupTime:      formatClock(v.DriverPickupTime),
			Notes:                 v.Notes,
			Photos:                v.Photos,
			GroupID:               v.GroupID,
			IsGroupLeader:         v.IsGroupLeader,
		},
	}
	if w.Photos == nil {
		w.Photos = []models.VisitorPhoto{}
	}
	if !v.CreatedAt.IsZero() {
		w.CreatedAt = v.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !v.UpdatedAt.IsZero() {
		w.UpdatedAt = v.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return w
}
