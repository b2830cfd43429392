package visitors

import (
	"testing"
	"time"

	"protodesk/models"
)

func sampleLeader() models.Visitor {
	arrival, _ := time.Parse("2006-01-02", "2025-03-10")
	return models.Visitor{
		Name:          "Aisha Rahman",
		Phone:         "+971501234567",
		ArrivalDate:   arrival,
		ArrivalHour:   &models.ClockTime{Hour: 14, Minute: 5},
		Airline:       "Emirates",
		FlightNumber:  "EK203",
		Driver:        "Hassan",
		Hotel:         "Hilton Creek, Baniyas Rd",
		GroupID:       "group-1",
		IsGroupLeader: true,
		CreatedBy:     "u1",
	}
}

func TestNewCompanionSharesLeaderTravelFields(t *testing.T) {
	leader := sampleLeader()
	companion, err := newCompanion(leader, CompanionPayload{
		Name:  "Omar Rahman",
		Phone: "+971507654321",
		Notes: "wheelchair assistance",
	})
	if err != nil {
		t.Fatalf("newCompanion: %v", err)
	}

	if companion.GroupID != leader.GroupID {
		t.Errorf("groupId = %q, want leader's %q", companion.GroupID, leader.GroupID)
	}
	if companion.IsGroupLeader {
		t.Error("companion must not carry the leader flag")
	}
	if !companion.ArrivalDate.Equal(leader.ArrivalDate) ||
		companion.FlightNumber != leader.FlightNumber ||
		companion.Hotel != leader.Hotel ||
		companion.Driver != leader.Driver {
		t.Errorf("travel fields not copied from leader: %+v", companion)
	}
	if companion.Name != "Omar Rahman" || companion.Phone != "+971507654321" || companion.Notes != "wheelchair assistance" {
		t.Errorf("personal fields not taken from payload: %+v", companion)
	}
	if !companion.ID.IsZero() {
		t.Error("companion must get a fresh id, not the leader's")
	}
	if companion.Photos == nil {
		t.Error("photos should default to [] rather than null")
	}
}

func TestNewCompanionRequiresNameAndPhone(t *testing.T) {
	leader := sampleLeader()

	if _, err := newCompanion(leader, CompanionPayload{Name: "Omar"}); err == nil {
		t.Error("missing phone should fail validation")
	}
	if _, err := newCompanion(leader, CompanionPayload{Phone: "+971500000000"}); err == nil {
		t.Error("missing name should fail validation")
	}
	if leader.IsGroupLeader != true || leader.Name != "Aisha Rahman" {
		t.Error("a failed companion must not touch the leader")
	}
}

func TestPartialFailureMessage(t *testing.T) {
	if got := partialFailureMessage(1, 1); got != "1 of 1 companions failed" {
		t.Errorf("message = %q", got)
	}
	if got := partialFailureMessage(2, 5); got != "2 of 5 companions failed" {
		t.Errorf("message = %q", got)
	}
}
