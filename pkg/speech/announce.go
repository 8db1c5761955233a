// Package speech renders aircraft sightings into spoken text and drives
// the external text-to-speech child process, one announcement at a time.
package speech

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jcalvinowens/planeyeller/pkg/geometry"
	"github.com/jcalvinowens/planeyeller/pkg/phonetic"
	"github.com/jcalvinowens/planeyeller/pkg/sbs"
)

// Announcement composes the most detailed spoken description currently
// available for the aircraft, as a list of phrases. The caller must have
// checked HasPosition; the observer-relative vector is computed here.
//
// Emergency squawks replace the identity and bearing phrases with an
// attention preamble repeating the distress code, but keep the rest of
// the routine detail.
func Announcement(a *sbs.Aircraft, obs geometry.Observer) []string {
	v := geometry.Slant(obs, a.Latitude, a.Longitude, float64(a.Altitude))

	vel := "unknown velocity"
	if !a.GroundSpeedAt.IsZero() {
		vel = fmt.Sprintf("%d knots", a.GroundSpeed/10*10)
	}
	trk := "unknown"
	if !a.TrackAt.IsZero() {
		trk = geometry.Cardinal(float64(a.Track))
	}

	ann := []string{
		fmt.Sprintf("%s in sight to the %s", a.DisplayName(), geometry.Cardinal(v.Bearing)),
		fmt.Sprintf("%s degrees above the horizon", phonetic.Expand(strconv.Itoa(int(v.Elevation)))),
		fmt.Sprintf("distance %.1f miles", v.Distance/geometry.FeetPerMile),
		fmt.Sprintf("tracking %s at %s", trk, vel),
		fmt.Sprintf("altitude %d feet", a.Altitude/100*100),
	}

	if !a.VerticalRateAt.IsZero() {
		switch r := a.VerticalRate / 100 * 100; {
		case r > 0:
			ann = append(ann, fmt.Sprintf("climbing at %d feet per minute", r))
		case r < 0:
			ann = append(ann, fmt.Sprintf("descending at %d feet per minute", -r))
		default:
			ann = append(ann, "in level flight")
		}
	} else {
		ann = append(ann, "vertical speed unknown")
	}

	if a.IsEmergency() {
		code := sbs.EmergencySquawks[a.Squawk]
		ann = append([]string{
			"ATTENTION, ATTENTION, ATTENTION",
			"AIRCRAFT DISTRESS TRANSPONDER CODE",
			fmt.Sprintf("%s squawks %s", a.DisplayName(), code),
			fmt.Sprintf("I, SAY, AGAIN, %s, %s, squawks, %s",
				strings.ToUpper(code), a.DisplayName(), strings.ToUpper(code)),
			fmt.Sprintf("The %s aircraft is to the %s", code, geometry.Cardinal(v.Bearing)),
		}, ann[1:]...)
	}

	return ann
}

// AnnouncementText joins the announcement phrases into the single string
// handed to the speech synthesizer.
func AnnouncementText(a *sbs.Aircraft, obs geometry.Observer) string {
	return strings.Join(Announcement(a, obs), ", ")
}
