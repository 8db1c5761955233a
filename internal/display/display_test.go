package display

import (
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/jcalvinowens/planeyeller/pkg/geometry"
	"github.com/jcalvinowens/planeyeller/pkg/sbs"
)

var t0 = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

var testObs = geometry.Observer{Latitude: 40.0, Longitude: -74.0, Altitude: 0}

func newTracker() *sbs.Tracker {
	return sbs.NewTracker(log.New(io.Discard, "", 0))
}

// record builds a minimal SBS line carrying only an identity.
func record(icao string) string {
	fields := make([]string, 22)
	fields[0] = "MSG"
	fields[4] = icao
	return strings.Join(fields, ",")
}

func TestSnapshotOrdering(t *testing.T) {
	tr := newTracker()

	// Three staleness buckets; two aircraft share the freshest one.
	tr.Parse(record("CCC333"), t0.Add(-40*time.Second))
	tr.Parse(record("BBB222"), t0.Add(-20*time.Second))
	tr.Parse(record("ZZZ999"), t0.Add(-5*time.Second))
	tr.Parse(record("AAA111"), t0.Add(-10*time.Second))

	rows, omitted := Snapshot(tr, testObs, t0, 30)
	if omitted != 0 {
		t.Fatalf("Unexpected omissions: %d", omitted)
	}

	got := make([]string, len(rows))
	for i, r := range rows {
		got[i] = r.ICAO
	}
	want := []string{"AAA111", "ZZZ999", "BBB222", "CCC333"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Row order = %v, want %v", got, want)
		}
	}
}

func TestSnapshotRowCap(t *testing.T) {
	tr := newTracker()
	for _, icao := range []string{"AAA111", "BBB222", "CCC333", "DDD444"} {
		tr.Parse(record(icao), t0)
	}

	rows, omitted := Snapshot(tr, testObs, t0, 3)
	if len(rows) != 3 || omitted != 1 {
		t.Errorf("Got %d rows with %d omitted, want 3 and 1", len(rows), omitted)
	}
}

func TestSnapshotCells(t *testing.T) {
	tr := newTracker()
	line := "MSG,3,1,1,A1B2C3,1,,,,,UAL123,35000,450,270,40.10000,-74.00000,-640,4721,,,,"
	tr.Parse(line, t0.Add(-7*time.Second))

	rows, _ := Snapshot(tr, testObs, t0, 30)
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}

	cells := rows[0].Cells
	if len(cells) != len(Headers) {
		t.Fatalf("Got %d cells for %d headers", len(cells), len(Headers))
	}

	checks := map[int]string{
		0:  "A1B2C3",
		1:  "UAL123",
		2:  "4721",
		3:  "+40.10000",
		4:  " -74.00000",
		5:  "35000ft",
		6:  "-640fpm",
		7:  "270",
		8:  "450kt",
		12: "7s",
	}
	for col, want := range checks {
		if cells[col] != want {
			t.Errorf("%s cell = %q, want %q", Headers[col], cells[col], want)
		}
	}

	// Geometry columns are populated once a position is known.
	for _, col := range []int{9, 10, 11} {
		if cells[col] == "" {
			t.Errorf("%s cell empty despite known position", Headers[col])
		}
	}
}

func TestSnapshotAbsentFields(t *testing.T) {
	tr := newTracker()
	tr.Parse(record("A1B2C3"), t0)

	rows, _ := Snapshot(tr, testObs, t0, 30)
	cells := rows[0].Cells

	// Everything except identity and age is unknown.
	for col := 1; col < len(cells)-1; col++ {
		if cells[col] != "" {
			t.Errorf("%s cell = %q for a bare identity, want empty", Headers[col], cells[col])
		}
	}
}
