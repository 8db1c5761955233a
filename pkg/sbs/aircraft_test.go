package sbs

import (
	"errors"
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// TestFieldUpdateIsolation verifies an update never disturbs any other
// field's value or timestamp.
func TestFieldUpdateIsolation(t *testing.T) {
	a := NewAircraft("ABC123", t0)

	if err := a.UpdateAltitude("10000", t0); err != nil {
		t.Fatalf("UpdateAltitude: %v", err)
	}
	if err := a.UpdateGroundSpeed("250", t0.Add(time.Second)); err != nil {
		t.Fatalf("UpdateGroundSpeed: %v", err)
	}

	if a.Altitude != 10000 {
		t.Errorf("Altitude changed to %d", a.Altitude)
	}
	if !a.AltitudeAt.Equal(t0) {
		t.Errorf("Altitude timestamp moved to %v", a.AltitudeAt)
	}
	if a.GroundSpeed != 250 {
		t.Errorf("Expected ground speed 250, got %d", a.GroundSpeed)
	}
	if !a.LatitudeAt.IsZero() || !a.SquawkAt.IsZero() || !a.CallsignAt.IsZero() {
		t.Error("Unrelated field timestamps were stamped")
	}
	if !a.LastSeen.Equal(t0.Add(time.Second)) {
		t.Errorf("LastSeen not advanced, got %v", a.LastSeen)
	}
}

// TestFieldParseError verifies malformed numeric input fails with a
// FieldParseError and leaves state untouched.
func TestFieldParseError(t *testing.T) {
	a := NewAircraft("ABC123", t0)
	if err := a.UpdateAltitude("9000", t0); err != nil {
		t.Fatalf("UpdateAltitude: %v", err)
	}

	err := a.UpdateAltitude("ground", t0.Add(time.Minute))
	if err == nil {
		t.Fatal("Expected error for non-numeric altitude")
	}
	var fpe *FieldParseError
	if !errors.As(err, &fpe) {
		t.Fatalf("Expected *FieldParseError, got %T", err)
	}
	if fpe.Field != "altitude" || fpe.Value != "ground" {
		t.Errorf("Unexpected error detail: %+v", fpe)
	}
	if a.Altitude != 9000 || !a.AltitudeAt.Equal(t0) {
		t.Error("Failed update modified state")
	}
}

// TestDataAge verifies the age of the worst field, and that it is
// undefined until all five contributing fields have been seen.
func TestDataAge(t *testing.T) {
	a := NewAircraft("ABC123", t0)

	if _, ok := a.DataAge(t0); ok {
		t.Error("DataAge defined with no fields set")
	}

	a.UpdateAltitude("10000", t0)
	a.UpdateLatitude("40.0", t0.Add(10*time.Second))
	a.UpdateLongitude("-74.0", t0.Add(10*time.Second))
	a.UpdateVerticalRate("0", t0.Add(20*time.Second))
	a.UpdateGroundTrack("90", t0.Add(30*time.Second))

	if _, ok := a.DataAge(t0.Add(time.Minute)); ok {
		t.Error("DataAge defined before ground speed ever seen")
	}

	a.UpdateGroundSpeed("200", t0.Add(40*time.Second))

	age, ok := a.DataAge(t0.Add(time.Minute))
	if !ok {
		t.Fatal("DataAge undefined with all fields set")
	}
	// Oldest contributing field is the altitude at t0.
	if age != time.Minute {
		t.Errorf("Expected data age 1m0s, got %v", age)
	}
}

// TestHasPositionAndComplete tests the derived readiness queries.
func TestHasPositionAndComplete(t *testing.T) {
	a := NewAircraft("ABC123", t0)

	a.UpdateLatitude("40.0", t0)
	a.UpdateLongitude("-74.0", t0)
	if a.HasPosition() {
		t.Error("HasPosition true without altitude")
	}
	a.UpdateAltitude("10000", t0)
	if !a.HasPosition() {
		t.Error("HasPosition false with lat/lon/alt all known")
	}

	if a.Complete(time.Minute, t0) {
		t.Error("Complete true without callsign, rate, track, speed")
	}

	a.UpdateCallsign("UAL123", t0)
	a.UpdateVerticalRate("-500", t0)
	a.UpdateGroundTrack("270", t0)
	a.UpdateGroundSpeed("310", t0)

	if !a.Complete(time.Minute, t0.Add(30*time.Second)) {
		t.Error("Complete false with every field fresh")
	}
	if a.Complete(time.Minute, t0.Add(2*time.Minute)) {
		t.Error("Complete true with data older than the limit")
	}
}

// TestIsEmergency tests the reserved squawk codes.
func TestIsEmergency(t *testing.T) {
	a := NewAircraft("ABC123", t0)
	if a.IsEmergency() {
		t.Error("Emergency with no squawk ever heard")
	}

	for _, code := range []string{"7500", "7600", "7700"} {
		a.UpdateSquawk(code, t0)
		if !a.IsEmergency() {
			t.Errorf("Squawk %s not flagged as emergency", code)
		}
	}

	a.UpdateSquawk("1200", t0)
	if a.IsEmergency() {
		t.Error("VFR squawk 1200 flagged as emergency")
	}
}

// TestDisplayName tests spoken-name resolution for the callsign forms.
func TestDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		callsign string
		want     string
	}{
		{"Airline flight", "UAL123", "United flight one two tree"},
		{"Unknown carrier flight", "ZZZ9", "zulu zulu zulu flight niner"},
		{"Registration", "N425TX", "november four two fife tango x-ray"},
		{"Trailing pad spaces stripped", "DAL88  ", "Delta flight eight eight"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAircraft("ABC123", t0)
			a.UpdateCallsign(tt.callsign, t0)
			if got := a.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("No callsign", func(t *testing.T) {
		a := NewAircraft("ABC123", t0)
		if got := a.DisplayName(); got != "Aircraft" {
			t.Errorf("Expected placeholder name, got %q", got)
		}
	})
}
