// Package feed manages the SBS input: the TCP connection to a decoder
// on port 30003, and optionally the lifecycle of a dump1090 child
// process when no decoder is already running.
package feed

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os/exec"
	"syscall"
	"time"
)

// Sentinel errors distinguishing the startup failure modes. The caller
// maps each to its own exit status.
var (
	// ErrDecoderRunning means an explicit decoder path was given but a
	// decoder is already serving the SBS port.
	ErrDecoderRunning = errors.New("feed: a decoder is already running")

	// ErrDecoderMissing means no decoder executable could be found.
	ErrDecoderMissing = errors.New("feed: no decoder executable found")

	// ErrDecoderStart means the decoder executable could not be run.
	ErrDecoderStart = errors.New("feed: decoder failed to start")

	// ErrConnect means the SBS port never accepted a connection.
	ErrConnect = errors.New("feed: cannot connect")
)

const (
	connectRetryDelay = 100 * time.Millisecond
	childConnectTries = 50
	childStopGrace    = time.Second
)

// decoderNames are the executables probed on PATH when no explicit
// decoder path is configured.
var decoderNames = []string{"dump1090", "dump1090-mutability"}

// Config selects the SBS source.
type Config struct {
	// Address and Port locate the decoder's BaseStation output.
	Address string
	Port    int

	// Dump1090Path, when non-empty, is a decoder executable to start.
	// Startup fails if a decoder is already serving the port.
	Dump1090Path string

	// NoDump1090 forbids starting a decoder; the port must already be
	// served.
	NoDump1090 bool
}

// Feed is an open SBS stream, possibly backed by a decoder child this
// process started and owns.
type Feed struct {
	cfg   Config
	log   *log.Logger
	conn  net.Conn
	lines *bufio.Scanner
	raw   io.Writer
	child *exec.Cmd
}

// Open connects to the configured SBS port, starting a decoder child
// when appropriate. The decoder policy has three cases:
//
//  1. Nothing configured: connect to an already running decoder, or
//     start one found on PATH if the port is closed.
//  2. An explicit decoder path: fail if a decoder is already running,
//     otherwise start the given executable.
//  3. NoDump1090: never start anything; the port must be open.
//
// A non-nil rawLog receives every line read, newline included.
func Open(cfg Config, rawLog io.Writer, logger *log.Logger) (*Feed, error) {
	f := &Feed{cfg: cfg, log: logger, raw: rawLog}

	f.conn = f.tryConnect(1)

	if f.conn != nil && cfg.Dump1090Path != "" {
		f.conn.Close()
		return nil, fmt.Errorf("%w: kill it or drop the explicit decoder path to use it", ErrDecoderRunning)
	}

	if f.conn == nil && !cfg.NoDump1090 {
		path := cfg.Dump1090Path
		if path == "" {
			path = findDecoder()
		}
		if path == "" {
			return nil, ErrDecoderMissing
		}

		f.log.Printf("starting decoder at %q", path)
		f.child = exec.Command(path, "--net")
		f.child.Stdin = nil
		f.child.Stdout = nil
		f.child.Stderr = nil
		if err := f.child.Start(); err != nil {
			f.child = nil
			return nil, fmt.Errorf("%w: %q: %v", ErrDecoderStart, path, err)
		}

		f.conn = f.tryConnect(childConnectTries)
	}

	if f.conn == nil {
		f.stopChild()
		return nil, fmt.Errorf("%w: %s:%d", ErrConnect, cfg.Address, cfg.Port)
	}

	f.lines = bufio.NewScanner(f.conn)
	return f, nil
}

// ReadLine returns the next SBS record without its line terminator.
// io.EOF means the decoder closed the stream.
func (f *Feed) ReadLine() (string, error) {
	if !f.lines.Scan() {
		if err := f.lines.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	line := f.lines.Text()
	if f.raw != nil {
		fmt.Fprintln(f.raw, line)
	}
	return line, nil
}

// Close shuts down the connection and stops any decoder child this
// process started.
func (f *Feed) Close() error {
	var err error
	if f.conn != nil {
		err = f.conn.Close()
	}
	f.stopChild()
	return err
}

// OwnsDecoder reports whether this process started the decoder.
func (f *Feed) OwnsDecoder() bool {
	return f.child != nil
}

// tryConnect dials the SBS port up to attempts times, 100ms apart. The
// write side is shut down immediately; the stream is read-only. Returns
// nil if every attempt is refused.
func (f *Feed) tryConnect(attempts int) net.Conn {
	addr := fmt.Sprintf("%s:%d", f.cfg.Address, f.cfg.Port)

	for ; attempts > 0; attempts-- {
		conn, err := net.Dial("tcp", addr)
		if err == nil {
			if tc, ok := conn.(*net.TCPConn); ok {
				tc.CloseWrite()
			}
			return conn
		}
		time.Sleep(connectRetryDelay)
	}
	return nil
}

// stopChild terminates the decoder child with a short grace period
// before killing it.
func (f *Feed) stopChild() {
	if f.child == nil {
		return
	}

	f.child.Process.Signal(syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		f.child.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(childStopGrace):
		f.child.Process.Kill()
		<-done
	}
	f.child = nil
}

func findDecoder() string {
	for _, name := range decoderNames {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}
