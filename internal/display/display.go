// Package display renders the live aircraft table. Snapshot builds the
// rows from tracker state; View owns the terminal UI around them.
package display

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/jcalvinowens/planeyeller/pkg/geometry"
	"github.com/jcalvinowens/planeyeller/pkg/sbs"
)

// Headers are the live table column titles, in display order.
var Headers = []string{
	"ICAO", "FLT", "SQWK", "LAT", "LON", "ALT",
	"VS", "GTRK", "GSPD", "TBRG", "ANGL", "DIST", "AGE",
}

// Row is one rendered aircraft line.
type Row struct {
	ICAO  string
	Cells []string
}

// Snapshot builds up to maxRows table rows from the tracker, sorted by
// coarse staleness then identity: aircraft heard in the same 15 second
// bucket keep a stable alphabetical order between refreshes.
// The second return is the number of aircraft omitted by the cap.
func Snapshot(t *sbs.Tracker, obs geometry.Observer, now time.Time, maxRows int) ([]Row, int) {
	planes := t.All()

	sort.SliceStable(planes, func(i, j int) bool {
		bi := int(now.Sub(planes[i].LastSeen).Seconds()) / 15
		bj := int(now.Sub(planes[j].LastSeen).Seconds()) / 15
		if bi != bj {
			return bi < bj
		}
		return planes[i].ICAO < planes[j].ICAO
	})

	omitted := 0
	if maxRows > 0 && len(planes) > maxRows {
		omitted = len(planes) - maxRows
		planes = planes[:maxRows]
	}

	rows := make([]Row, 0, len(planes))
	for _, p := range planes {
		rows = append(rows, Row{ICAO: p.ICAO, Cells: cells(p, obs, now)})
	}
	return rows, omitted
}

// cells formats one aircraft into the column strings. Fields never
// observed render empty.
func cells(p *sbs.Aircraft, obs geometry.Observer, now time.Time) []string {
	bearing, angle, dist := "", "", ""
	if p.HasPosition() {
		v := geometry.Slant(obs, p.Latitude, p.Longitude, float64(p.Altitude))
		bearing = fmt.Sprintf("%3.0f", v.Bearing)
		angle = fmt.Sprintf("%3.0f", v.Elevation)
		if !math.IsNaN(v.Distance) {
			dist = fmt.Sprintf("%5.1fmi", v.Distance/geometry.FeetPerMile)
		}
	}

	return []string{
		p.ICAO,
		p.Callsign,
		cellInt(p.Squawk, p.SquawkAt, "%04d"),
		cellFloat(p.Latitude, p.LatitudeAt, "%+9.5f"),
		cellFloat(p.Longitude, p.LongitudeAt, "%+10.5f"),
		cellInt(p.Altitude, p.AltitudeAt, "%dft"),
		cellInt(p.VerticalRate, p.VerticalRateAt, "%+dfpm"),
		cellInt(p.Track, p.TrackAt, "%d"),
		cellInt(p.GroundSpeed, p.GroundSpeedAt, "%dkt"),
		bearing,
		angle,
		dist,
		fmt.Sprintf("%ds", int(now.Sub(p.LastSeen).Seconds())),
	}
}

func cellInt(v int, at time.Time, format string) string {
	if at.IsZero() {
		return ""
	}
	return fmt.Sprintf(format, v)
}

func cellFloat(v float64, at time.Time, format string) string {
	if at.IsZero() {
		return ""
	}
	return fmt.Sprintf(format, v)
}
