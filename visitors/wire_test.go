package visitors

import (
	"reflect"
	"testing"

	"protodesk/models"
)

func samplePayload() Payload {
	return Payload{
		Name:                  "Aisha Rahman",
		Phone:                 "+971501234567",
		ArrivalDate:           "2025-03-10",
		ArrivalTime:           "14:05",
		Airline:               "Emirates",
		FlightNumber:          "EK203",
		Driver:                "Hassan",
		Hotel:                 "Hilton Creek, Baniyas Rd",
		DepartureDate:         "2025-03-18",
		DepartureTime:         "09:30",
		DepartureAirline:      "Emirates",
		DepartureFlightNumber: "EK204",
		DriverPickupTime:      "11:45",
		Notes:                 "VIP guest",
	}
}

func TestWireRoundTrip(t *testing.T) {
	in := samplePayload()
	in.Photos = []models.VisitorPhoto{}

	v, err := in.ToVisitor()
	if err != nil {
		t.Fatalf("ToVisitor: %v", err)
	}
	out := ToWire(v).Payload

	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch:\n in: %+v\nout: %+v", in, out)
	}
}

func TestWireRoundTripTimeFormatting(t *testing.T) {
	cases := map[string]string{
		"14:05": "14:05",
		"00:00": "00:00",
		"23:59": "23:59",
		"":      "",
	}
	for in, want := range cases {
		c, err := parseClock(in)
		if err != nil {
			t.Fatalf("parseClock(%q): %v", in, err)
		}
		if got := formatClock(c); got != want {
			t.Errorf("parseClock/formatClock(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseClockRejectsGarbage(t *testing.T) {
	for _, in := range []string{"25:00", "12:75", "noon", "-1:30", "14:05xx", "9:05", "9:5", "14.05"} {
		if _, err := parseClock(in); err == nil {
			t.Errorf("parseClock(%q) accepted invalid input", in)
		}
	}
}

func TestEmptyTimeDistinctFromMidnight(t *testing.T) {
	empty, _ := parseClock("")
	if empty != nil {
		t.Fatal("empty time should stay nil in storage")
	}
	midnight, _ := parseClock("00:00")
	if midnight == nil || midnight.Hour != 0 || midnight.Minute != 0 {
		t.Fatal("midnight should be a real {0,0} pair")
	}
	if formatClock(empty) == formatClock(midnight) {
		t.Error("\"\" and \"00:00\" must not collapse into each other")
	}
}

func TestToVisitorRequiredFields(t *testing.T) {
	p := samplePayload()
	p.Phone = ""
	if _, err := p.ToVisitor(); err == nil {
		t.Error("missing phone should fail validation")
	}

	p = samplePayload()
	p.Name = ""
	if _, err := p.ToVisitor(); err == nil {
		t.Error("missing name should fail validation")
	}
}

func TestToVisitorRejectsBadDate(t *testing.T) {
	p := samplePayload()
	p.ArrivalDate = "10/03/2025"
	if _, err := p.ToVisitor(); err == nil {
		t.Error("malformed arrival date should be rejected, not defaulted")
	}
}

func TestToVisitorAllowsMissingArrivalDate(t *testing.T) {
	p := samplePayload()
	p.ArrivalDate = ""
	v, err := p.ToVisitor()
	if err != nil {
		t.Fatalf("empty arrival date should be allowed: %v", err)
	}
	if !v.ArrivalDate.IsZero() {
		t.Error("empty arrival date should stay zero (unscheduled)")
	}
	if ToWire(v).ArrivalDate != "" {
		t.Error("zero arrival date should format back to empty string")
	}
}

func TestLeaderFlagClearedWithoutGroup(t *testing.T) {
	p := samplePayload()
	p.GroupID = ""
	p.IsGroupLeader = true
	v, err := p.ToVisitor()
	if err != nil {
		t.Fatalf("ToVisitor: %v", err)
	}
	if v.IsGroupLeader {
		t.Error("leader flag must be cleared when there is no group")
	}
}

func TestToWireEmptyPhotos(t *testing.T) {
	w := ToWire(models.Visitor{Name: "x", Phone: "y"})
	if w.Photos == nil {
		t.Error("photos should serialize as [] rather than null")
	}
}
