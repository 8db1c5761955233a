// Package announce decides which tracked aircraft get spoken, in what
// order, and drives the single exclusive speaker slot.
package announce

import (
	"log"
	"sort"
	"time"

	"github.com/jcalvinowens/planeyeller/pkg/geometry"
	"github.com/jcalvinowens/planeyeller/pkg/sbs"
	"github.com/jcalvinowens/planeyeller/pkg/speech"
)

// Speaker is the single exclusive speech slot the scheduler drives. At
// most one speech is ever in flight; the scheduler never calls Say while
// Busy reports true.
type Speaker interface {
	// Say starts one speech. An error means the child could not be
	// spawned and is fatal to the run.
	Say(text string) error

	// Busy polls the slot, reclaiming it if the speech has finished.
	Busy() bool

	// Interrupt terminates an in-flight speech.
	Interrupt()
}

// Config holds the scheduling policy knobs.
type Config struct {
	// MinAngle suppresses routine announcements below this elevation
	// angle in degrees. Emergencies ignore it.
	MinAngle float64

	// Wait is the completeness threshold: with a non-zero Wait an
	// aircraft is announced only once every data field is known and
	// none is staler than Wait. Zero announces on bare position.
	Wait time.Duration

	// RoutineCooldown is the minimum gap between announcements of the
	// same aircraft.
	RoutineCooldown time.Duration

	// EmergencyCooldown is the separate, longer gap between emergency
	// announcements of the same aircraft.
	EmergencyCooldown time.Duration
}

// Sighting describes one completed announcement, for optional recording.
type Sighting struct {
	ICAO      string
	Callsign  string
	Squawk    int
	Emergency bool
	Vector    geometry.Vector
	Text      string
	At        time.Time
}

// Scheduler owns the pending-announcement queue and the cooldown state.
// It is driven from a single goroutine: Evaluate once per parsed record,
// Service on every loop pass, Drain at shutdown.
type Scheduler struct {
	cfg     Config
	obs     geometry.Observer
	speaker Speaker
	log     *log.Logger

	// pending is kept sorted ascending by elevation angle; dispatch
	// pops from the end, so the highest aircraft is spoken first and a
	// just-inserted emergency (appended unsorted) is spoken next.
	pending       []*sbs.Aircraft
	lastAnnounced map[string]time.Time
	lastEmergency map[string]time.Time

	// OnAnnounce, when set, observes every dispatched announcement.
	OnAnnounce func(Sighting)
}

// New creates a scheduler around the given policy, observer position,
// and speaker slot.
func New(cfg Config, obs geometry.Observer, spk Speaker, logger *log.Logger) *Scheduler {
	return &Scheduler{
		cfg:           cfg,
		obs:           obs,
		speaker:       spk,
		log:           logger,
		lastAnnounced: make(map[string]time.Time),
		lastEmergency: make(map[string]time.Time),
	}
}

// Evaluate applies the announcement rules to a just-updated aircraft.
//
// Emergency squawks with a known position preempt everything: they are
// enqueued regardless of elevation angle, on their own longer cooldown,
// and terminate an in-flight routine speech so the slot frees
// immediately. Routine sightings must be announceable (complete, or
// bare-position when no completeness wait is configured), off cooldown,
// and above the minimum elevation angle.
func (s *Scheduler) Evaluate(a *sbs.Aircraft, now time.Time) {
	if a == nil || !a.HasPosition() {
		return
	}

	if a.IsEmergency() && now.Sub(s.lastEmergency[a.ICAO]) > s.cfg.EmergencyCooldown {
		s.log.Printf("emergency squawk %d from %s (%s)", a.Squawk, a.ICAO, a.Callsign)
		s.pending = append(s.pending, a)
		s.lastEmergency[a.ICAO] = now
		s.lastAnnounced[a.ICAO] = now
		if s.speaker.Busy() {
			s.speaker.Interrupt()
		}
		return
	}

	if !a.Complete(s.cfg.Wait, now) && !(s.cfg.Wait == 0 && a.HasPosition()) {
		return
	}
	if now.Sub(s.lastAnnounced[a.ICAO]) < s.cfg.RoutineCooldown {
		return
	}
	if s.elevation(a) < s.cfg.MinAngle {
		return
	}

	s.pending = append(s.pending, a)
	s.sortPending()
	s.lastAnnounced[a.ICAO] = now
}

// Service reclaims the speaker slot if the previous speech has finished
// and dispatches the highest-priority pending announcement into it.
func (s *Scheduler) Service(now time.Time) error {
	if s.speaker.Busy() || len(s.pending) == 0 {
		return nil
	}

	a := s.pending[len(s.pending)-1]
	s.pending = s.pending[:len(s.pending)-1]

	text := speech.AnnouncementText(a, s.obs)
	s.log.Printf("announce: %q", text)
	if err := s.speaker.Say(text); err != nil {
		return err
	}

	if s.OnAnnounce != nil {
		s.OnAnnounce(Sighting{
			ICAO:      a.ICAO,
			Callsign:  a.Callsign,
			Squawk:    a.Squawk,
			Emergency: a.IsEmergency(),
			Vector:    geometry.Slant(s.obs, a.Latitude, a.Longitude, float64(a.Altitude)),
			Text:      text,
			At:        now,
		})
	}
	return nil
}

// Drain announces everything still pending, waiting for each speech to
// finish before starting the next. A receive on abort cancels the
// remaining queue and terminates the current speech instead of waiting.
func (s *Scheduler) Drain(abort <-chan struct{}) error {
	for len(s.pending) > 0 || s.speaker.Busy() {
		select {
		case <-abort:
			s.log.Printf("drain aborted, dropping %d pending announcements", len(s.pending))
			s.pending = s.pending[:0]
			s.speaker.Interrupt()
			return nil
		default:
		}

		if !s.speaker.Busy() {
			if err := s.Service(time.Now()); err != nil {
				return err
			}
			continue
		}
		time.Sleep(50 * time.Millisecond)
	}
	return nil
}

// PendingCount returns the number of queued announcements.
func (s *Scheduler) PendingCount() int {
	return len(s.pending)
}

// sortPending re-sorts the queue ascending by current elevation angle.
// Only routine inserts trigger a sort; an emergency stays appended at
// the dispatch end until the next routine insert.
func (s *Scheduler) sortPending() {
	keys := make(map[*sbs.Aircraft]float64, len(s.pending))
	for _, a := range s.pending {
		keys[a] = s.elevation(a)
	}
	sort.SliceStable(s.pending, func(i, j int) bool {
		return keys[s.pending[i]] < keys[s.pending[j]]
	})
}

func (s *Scheduler) elevation(a *sbs.Aircraft) float64 {
	return geometry.Slant(s.obs, a.Latitude, a.Longitude, float64(a.Altitude)).Elevation
}
