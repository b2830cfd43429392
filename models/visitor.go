package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClockTime is a wall-clock hour:minute pair. It is not timezone-aware;
// "14:05" on the wire becomes {14, 5} here and formats back to "14:05".
type ClockTime struct {
	Hour   int `bson:"hour" json:"hour"`
	Minute int `bson:"minute" json:"minute"`
}

type VisitorPhoto struct {
	URL        string `bson:"url" json:"url"`
	PublicID   string `bson:"publicId" json:"publicId"`
	UploadedAt string `bson:"uploadedAt" json:"uploadedAt"`
}

// Visitor is the storage shape of one person's trip record, collection
// v4protocol. Dates are UTC midnights, times are ClockTime sub-documents.
// A nil ClockTime pointer means the field was never set and round-trips
// back to "" on the wire.
type Visitor struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty"`
	Name                  string             `bson:"name"`
	Phone                 string             `bson:"phone"`
	ArrivalDate           time.Time          `bson:"arrival_date"`
	ArrivalHour           *ClockTime         `bson:"arrival_hour,omitempty"`
	Airline               string             `bson:"airline"`
	FlightNumber          string             `bson:"flight_number"`
	Driver                string             `bson:"driver"`
	Hotel                 string             `bson:"hotel"`
	DepartureDate         time.Time          `bson:"departure_date"`
	DepartureHour         *ClockTime         `bson:"departure_hour,omitempty"`
	DepartureAirline      string             `bson:"departure_airline"`
	DepartureFlightNumber string             `bson:"departure_flight_number"`
	DriverPickupTime      *ClockTime         `bson:"driver_pickup_time,omitempty"`
	Notes                 string             `bson:"notes"`
	Photos                []VisitorPhoto     `bson:"photos"`
	GroupID               string             `bson:"groupId,omitempty"`
	IsGroupLeader         bool               `bson:"isGroupLeader,omitempty"`
	CreatedBy             string             `bson:"createdBy,omitempty"`
	CreatedAt             time.Time          `bson:"createdAt"`
	UpdatedAt             time.Time          `bson:"updatedAt"`
}
