package sbs

import (
	"errors"
	"log"
	"sort"
	"strings"
	"time"
)

// ErrEndOfStream reports that the feed produced an empty read. It is the
// normal termination signal for the ingestion loop, not a failure.
var ErrEndOfStream = errors.New("sbs: end of stream")

const (
	// minFields is the minimum comma-separated field count for a usable
	// BaseStation record. Records shorter than this are discarded.
	minFields = 18

	// identityField is the 0-indexed offset of the ICAO hex address.
	identityField = 4
)

// fieldKind tags one of the seven updatable observation kinds carried by
// a BaseStation record.
type fieldKind int

const (
	fieldCallsign fieldKind = iota
	fieldAltitude
	fieldGroundSpeed
	fieldGroundTrack
	fieldLatitude
	fieldLongitude
	fieldVerticalRate
	fieldSquawk
)

// sbsFields is the closed mapping from 0-indexed record offsets to update
// kinds. A record legitimately carries only a subset of these depending
// on its message type; empty offsets are skipped.
var sbsFields = [...]struct {
	offset int
	kind   fieldKind
}{
	{10, fieldCallsign},
	{11, fieldAltitude},
	{12, fieldGroundSpeed},
	{13, fieldGroundTrack},
	{14, fieldLatitude},
	{15, fieldLongitude},
	{16, fieldVerticalRate},
	{17, fieldSquawk},
}

// Tracker owns the mapping from ICAO address to aircraft state and feeds
// it by parsing BaseStation lines. It is not safe for concurrent use;
// the ingestion loop is single-threaded.
type Tracker struct {
	planes map[string]*Aircraft
	log    *log.Logger

	// Verbose enables per-field debug logging.
	Verbose bool
}

// NewTracker creates an empty tracker logging through the given sink.
func NewTracker(logger *log.Logger) *Tracker {
	return &Tracker{
		planes: make(map[string]*Aircraft),
		log:    logger,
	}
}

// Get returns the state for an ICAO address, or nil if never heard.
func (t *Tracker) Get(icao string) *Aircraft {
	return t.planes[strings.ToUpper(icao)]
}

// Len returns the number of distinct aircraft ever heard.
func (t *Tracker) Len() int {
	return len(t.planes)
}

// All returns every tracked aircraft ordered by ICAO address.
func (t *Tracker) All() []*Aircraft {
	out := make([]*Aircraft, 0, len(t.planes))
	for _, a := range t.planes {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ICAO < out[j].ICAO })
	return out
}

// Parse consumes one BaseStation line and returns the ICAO address of
// the aircraft it updated, so the caller can immediately re-fetch and
// evaluate it.
//
// An empty line returns ErrEndOfStream. A record with too few fields is
// logged and discarded ("", nil). A field that fails to parse is dropped
// while the rest of the record is still applied.
func (t *Tracker) Parse(line string, now time.Time) (string, error) {
	if len(line) == 0 {
		return "", ErrEndOfStream
	}

	fields := strings.Split(line, ",")
	if len(fields) < minFields {
		t.log.Printf("ignoring bad line: %q", line)
		return "", nil
	}

	icao := strings.ToUpper(fields[identityField])
	plane := t.planes[icao]
	if plane == nil {
		plane = NewAircraft(icao, now)
		t.planes[icao] = plane
	}
	plane.Touch(now)

	for _, f := range sbsFields {
		raw := fields[f.offset]
		if raw == "" {
			continue
		}
		if err := t.apply(plane, f.kind, raw, now); err != nil {
			t.log.Printf("%s: dropping field: %v", icao, err)
		}
	}

	return icao, nil
}

// apply dispatches one tagged field update to the aircraft.
func (t *Tracker) apply(a *Aircraft, kind fieldKind, raw string, now time.Time) error {
	var err error
	switch kind {
	case fieldCallsign:
		err = a.UpdateCallsign(raw, now)
	case fieldAltitude:
		err = a.UpdateAltitude(raw, now)
	case fieldGroundSpeed:
		err = a.UpdateGroundSpeed(raw, now)
	case fieldGroundTrack:
		err = a.UpdateGroundTrack(raw, now)
	case fieldLatitude:
		err = a.UpdateLatitude(raw, now)
	case fieldLongitude:
		err = a.UpdateLongitude(raw, now)
	case fieldVerticalRate:
		err = a.UpdateVerticalRate(raw, now)
	case fieldSquawk:
		err = a.UpdateSquawk(raw, now)
	}
	if err == nil && t.Verbose {
		t.log.Printf("%s: %s", a.ICAO, raw)
	}
	return err
}
