package speech

import (
	"fmt"
	"log"
	"math/rand"
	"os/exec"
	"syscall"
	"time"
)

// Speech-rate and pitch bounds passed to espeak. Each announcement gets
// a fresh random value inside the bounds so consecutive announcements
// don't sound quite identical.
const (
	rateMin  = 205
	rateMax  = 210
	pitchMin = 50
	pitchMax = 60
)

// killGrace is how long Interrupt waits for espeak to exit after
// SIGTERM before sending SIGKILL.
const killGrace = time.Second

// state is the speaker slot's lifecycle phase.
type state int

const (
	idle state = iota
	speaking
)

// Speaker runs at most one espeak child process at a time. The lifecycle
// is Idle → Speaking on Say, and Speaking → Idle when the child exits
// (observed via Busy) or is forcibly terminated via Interrupt. It is
// driven from a single goroutine.
type Speaker struct {
	path string
	log  *log.Logger
	rng  *rand.Rand

	st   state
	cmd  *exec.Cmd
	done chan error
}

// NewSpeaker creates a speaker slot around the given espeak binary.
func NewSpeaker(path string, logger *log.Logger) *Speaker {
	return &Speaker{
		path: path,
		log:  logger,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// LookupBinary resolves the espeak path, consulting $PATH for bare
// names. A failure here is fatal to the run: the program cannot serve
// its purpose without a speaker.
func LookupBinary(path string) (string, error) {
	resolved, err := exec.LookPath(path)
	if err != nil {
		return "", fmt.Errorf("can't find espeak (%q): %w", path, err)
	}
	return resolved, nil
}

// Say spawns the speech child for one rendered announcement. The child's
// standard streams are discarded; only its liveness is observed. Calling
// Say while a child is still running is a caller bug, and the error is
// also how a failed spawn surfaces, which callers treat as fatal.
func (s *Speaker) Say(text string) error {
	if s.st != idle {
		return fmt.Errorf("speaker slot busy")
	}

	cmd := exec.Command(s.path, "-ven-us",
		fmt.Sprintf("-s%d", rateMin+s.rng.Intn(rateMax-rateMin)),
		fmt.Sprintf("-p%d", pitchMin+s.rng.Intn(pitchMax-pitchMin)),
		text,
	)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", s.path, err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	s.cmd = cmd
	s.done = done
	s.st = speaking
	return nil
}

// Busy polls the slot, reaping the child if it has exited, and reports
// whether a speech is still in flight.
func (s *Speaker) Busy() bool {
	if s.st == idle {
		return false
	}
	select {
	case <-s.done:
		s.reset()
		return false
	default:
		return true
	}
}

// Interrupt terminates an in-flight speech: SIGTERM, a bounded grace
// period, then SIGKILL. No-op when idle.
func (s *Speaker) Interrupt() {
	if s.st == idle {
		return
	}
	s.cmd.Process.Signal(syscall.SIGTERM)
	select {
	case <-s.done:
	case <-time.After(killGrace):
		s.cmd.Process.Kill()
		<-s.done
	}
	s.reset()
}

// Wait blocks until the in-flight speech finishes naturally. No-op when
// idle.
func (s *Speaker) Wait() {
	if s.st == idle {
		return
	}
	<-s.done
	s.reset()
}

func (s *Speaker) reset() {
	s.cmd = nil
	s.done = nil
	s.st = idle
}
