// Package sbs tracks aircraft state from the line-oriented "SBS
// BaseStation" surveillance protocol emitted by ADS-B decoders such as
// dump1090. http://woodair.net/sbs/article/barebones42_socket_data.htm
package sbs

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jcalvinowens/planeyeller/pkg/phonetic"
)

// EmergencySquawks maps the three reserved distress transponder codes to
// their spoken names.
var EmergencySquawks = map[int]string{
	7500: "hijacked",
	7600: "nordo",
	7700: "emergency",
}

// icaoFlightNo matches callsigns of the three-letter-carrier plus flight
// number form (e.g. UAL123).
var icaoFlightNo = regexp.MustCompile(`^[A-Z]{3}[0-9]+`)

// FieldParseError reports a single SBS field whose text could not be
// parsed. The record it came from is otherwise still usable; callers
// drop the field and keep going.
type FieldParseError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldParseError) Error() string {
	return fmt.Sprintf("bad %s field %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldParseError) Unwrap() error { return e.Err }

// Aircraft holds the last-known state of one airframe for which at least
// one packet has been heard. Every observable field carries its own
// update timestamp; a zero timestamp means the field has never been
// observed. Values are only meaningful when their timestamp is non-zero.
type Aircraft struct {
	// ICAO is the 24-bit hex aircraft address, uppercased. Immutable.
	ICAO string

	Callsign   string
	CallsignAt time.Time

	// Altitude in feet MSL
	Altitude   int
	AltitudeAt time.Time

	// Latitude/Longitude in decimal degrees (WGS84)
	Latitude    float64
	LatitudeAt  time.Time
	Longitude   float64
	LongitudeAt time.Time

	// Squawk is the Mode A transponder code as a plain integer (7700,
	// not octal-decoded).
	Squawk   int
	SquawkAt time.Time

	// VerticalRate in feet per minute, positive climbing
	VerticalRate   int
	VerticalRateAt time.Time

	// Track is the ground track in degrees true
	Track   int
	TrackAt time.Time

	// GroundSpeed in knots
	GroundSpeed   int
	GroundSpeedAt time.Time

	// LastSeen is the arrival time of the newest packet of any kind,
	// including ones that carried no updatable field.
	LastSeen time.Time
}

// NewAircraft creates the state entry for a newly heard address.
func NewAircraft(icao string, now time.Time) *Aircraft {
	return &Aircraft{ICAO: icao, LastSeen: now}
}

// Touch records a packet of any kind for staleness accounting.
func (a *Aircraft) Touch(now time.Time) {
	a.LastSeen = now
}

// Age returns the time since the newest packet of any kind.
func (a *Aircraft) Age(now time.Time) time.Duration {
	return now.Sub(a.LastSeen)
}

// DataAge returns the time since the oldest of the five data fields
// {altitude, position, vertical rate, ground track, ground speed} was
// last refreshed: a conservative "how stale is our worst field" measure.
// The second return is false until every contributing field has been
// observed at least once.
func (a *Aircraft) DataAge(now time.Time) (time.Duration, bool) {
	oldest := a.AltitudeAt
	for _, ts := range []time.Time{
		a.LatitudeAt,
		a.LongitudeAt,
		a.VerticalRateAt,
		a.TrackAt,
		a.GroundSpeedAt,
	} {
		if ts.Before(oldest) {
			oldest = ts
		}
	}
	if oldest.IsZero() {
		return 0, false
	}
	return now.Sub(oldest), true
}

// HasPosition reports whether latitude, longitude, and altitude are all
// known, i.e. whether an observer-relative vector can be computed.
func (a *Aircraft) HasPosition() bool {
	return !a.LatitudeAt.IsZero() && !a.LongitudeAt.IsZero() && !a.AltitudeAt.IsZero()
}

// Complete reports whether every data field is known and none is staler
// than limit.
func (a *Aircraft) Complete(limit time.Duration, now time.Time) bool {
	if !a.HasPosition() || a.CallsignAt.IsZero() ||
		a.VerticalRateAt.IsZero() || a.TrackAt.IsZero() || a.GroundSpeedAt.IsZero() {
		return false
	}
	age, ok := a.DataAge(now)
	return ok && age < limit
}

// IsEmergency reports whether the last known squawk is one of the three
// reserved distress codes.
func (a *Aircraft) IsEmergency() bool {
	if a.SquawkAt.IsZero() {
		return false
	}
	_, ok := EmergencySquawks[a.Squawk]
	return ok
}

// DisplayName returns the best spoken name for the aircraft. Airline
// callsigns become "<carrier> flight <digits>"; anything else is spelled
// out phonetically; with no callsign at all it is just "Aircraft".
func (a *Aircraft) DisplayName() string {
	if a.CallsignAt.IsZero() {
		return "Aircraft"
	}
	if icaoFlightNo.MatchString(a.Callsign) {
		carrier, number := a.Callsign[:3], a.Callsign[3:]
		return fmt.Sprintf("%s flight %s", phonetic.Airline(carrier), phonetic.Expand(number))
	}
	return phonetic.Expand(a.Callsign)
}

// The update methods below each parse one textual SBS field, store the
// typed value, and stamp both the field timestamp and LastSeen. A value
// that fails to parse returns a *FieldParseError and leaves all state
// untouched.

func (a *Aircraft) UpdateCallsign(s string, now time.Time) error {
	a.Callsign = strings.TrimRight(s, " ")
	a.CallsignAt = now
	a.Touch(now)
	return nil
}

func (a *Aircraft) UpdateAltitude(s string, now time.Time) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return &FieldParseError{Field: "altitude", Value: s, Err: err}
	}
	a.Altitude = v
	a.AltitudeAt = now
	a.Touch(now)
	return nil
}

func (a *Aircraft) UpdateLatitude(s string, now time.Time) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return &FieldParseError{Field: "latitude", Value: s, Err: err}
	}
	a.Latitude = v
	a.LatitudeAt = now
	a.Touch(now)
	return nil
}

func (a *Aircraft) UpdateLongitude(s string, now time.Time) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return &FieldParseError{Field: "longitude", Value: s, Err: err}
	}
	a.Longitude = v
	a.LongitudeAt = now
	a.Touch(now)
	return nil
}

func (a *Aircraft) UpdateSquawk(s string, now time.Time) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return &FieldParseError{Field: "squawk", Value: s, Err: err}
	}
	a.Squawk = v
	a.SquawkAt = now
	a.Touch(now)
	return nil
}

func (a *Aircraft) UpdateVerticalRate(s string, now time.Time) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return &FieldParseError{Field: "vertical rate", Value: s, Err: err}
	}
	a.VerticalRate = v
	a.VerticalRateAt = now
	a.Touch(now)
	return nil
}

func (a *Aircraft) UpdateGroundTrack(s string, now time.Time) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return &FieldParseError{Field: "ground track", Value: s, Err: err}
	}
	a.Track = v
	a.TrackAt = now
	a.Touch(now)
	return nil
}

func (a *Aircraft) UpdateGroundSpeed(s string, now time.Time) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return &FieldParseError{Field: "ground speed", Value: s, Err: err}
	}
	a.GroundSpeed = v
	a.GroundSpeedAt = now
	a.Touch(now)
	return nil
}
