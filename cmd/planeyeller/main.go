// Planeyeller listens to an ADS-B decoder's BaseStation output and
// announces overflying aircraft through espeak.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/jcalvinowens/planeyeller/internal/announce"
	"github.com/jcalvinowens/planeyeller/internal/db"
	"github.com/jcalvinowens/planeyeller/internal/display"
	"github.com/jcalvinowens/planeyeller/internal/feed"
	"github.com/jcalvinowens/planeyeller/pkg/config"
	"github.com/jcalvinowens/planeyeller/pkg/geometry"
	"github.com/jcalvinowens/planeyeller/pkg/sbs"
	"github.com/jcalvinowens/planeyeller/pkg/speech"
)

// Exit statuses, one per startup failure mode.
const (
	exitEspeakMissing  = 1
	exitDecoderRunning = 2
	exitDecoderMissing = 3
	exitDecoderStart   = 4
	exitConnectFailed  = 5
	exitDatabaseFailed = 6
)

const dbCleanupInterval = 10 * time.Minute

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "Path to configuration file")
	lat := flag.Float64("lat", 0, "Observer latitude in decimal degrees")
	lon := flag.Float64("lon", 0, "Observer longitude in decimal degrees")
	alt := flag.Float64("alt", 0, "Observer altitude in feet MSL")
	angle := flag.Float64("angle", -1, "Minimum elevation angle to announce")
	wait := flag.Int("wait", -1, "Seconds of data completeness to require before announcing (0 announces on bare position)")
	espeakPath := flag.String("espeak", "", "Path to espeak executable")
	dump1090Path := flag.String("dump1090", "", "Path to decoder executable to start")
	noDump1090 := flag.Bool("no-dump1090", false, "Never start a decoder; one must already be running")
	live := flag.Bool("live", false, "Show the live aircraft table instead of console logging")
	address := flag.String("a", "", "Decoder address")
	port := flag.Int("p", 0, "Decoder SBS port")
	logPath := flag.String("l", "", "Append a full log to this file")
	rawPath := flag.String("r", "", "Append raw SBS input to this file, replayable with sbs-replay")
	verbose := flag.Bool("v", false, "Log every parsed field update")
	quiet := flag.Bool("q", false, "Suppress console logging")
	recent := flag.Int("recent", 0, "Print the N newest logged sightings and exit")
	history := flag.String("history", "", "Print every logged sighting of one ICAO identity and exit")
	flag.Parse()

	if *dump1090Path != "" && *noDump1090 {
		fmt.Fprintln(os.Stderr, "-dump1090 and -no-dump1090 are mutually exclusive")
		flag.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad config: %v\n", err)
		return 2
	}
	// Explicitly given flags override the config file. Zero is a valid
	// latitude, so presence matters, not value.
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["lat"] {
		cfg.Observer.Latitude = *lat
	}
	if set["lon"] {
		cfg.Observer.Longitude = *lon
	}
	if set["alt"] {
		cfg.Observer.Altitude = *alt
	}
	if *angle >= 0 {
		cfg.Announce.MinAngleDeg = *angle
	}
	if *wait >= 0 {
		cfg.Announce.WaitSeconds = *wait
	}
	if *espeakPath != "" {
		cfg.Announce.EspeakPath = *espeakPath
	}
	if *dump1090Path != "" {
		cfg.Feed.Dump1090Path = *dump1090Path
	}
	if *noDump1090 {
		cfg.Feed.NoDump1090 = true
	}
	if *address != "" {
		cfg.Feed.Address = *address
	}
	if *port != 0 {
		cfg.Feed.Port = *port
	}
	if *rawPath != "" {
		cfg.Feed.RawLogPath = *rawPath
	}
	if *live {
		cfg.Display.Enabled = true
	}

	logger, closeLogs, err := buildLogger(cfg.Display.Enabled, *quiet, *logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open log file: %v\n", err)
		return 2
	}
	defer closeLogs()

	if *recent > 0 || *history != "" {
		return querySightings(cfg, *recent, *history, logger)
	}

	espeak, err := speech.LookupBinary(cfg.Announce.EspeakPath)
	if err != nil {
		logger.Printf("can't find espeak (%q): %v", cfg.Announce.EspeakPath, err)
		return exitEspeakMissing
	}

	var rawLog io.Writer
	if cfg.Feed.RawLogPath != "" {
		f, err := os.OpenFile(cfg.Feed.RawLogPath,
			os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			logger.Printf("cannot open raw log: %v", err)
			return 2
		}
		defer f.Close()
		rawLog = f
	}

	in, err := feed.Open(feed.Config{
		Address:      cfg.Feed.Address,
		Port:         cfg.Feed.Port,
		Dump1090Path: cfg.Feed.Dump1090Path,
		NoDump1090:   cfg.Feed.NoDump1090,
	}, rawLog, logger)
	if err != nil {
		logger.Print(err)
		switch {
		case errors.Is(err, feed.ErrDecoderRunning):
			return exitDecoderRunning
		case errors.Is(err, feed.ErrDecoderMissing):
			return exitDecoderMissing
		case errors.Is(err, feed.ErrDecoderStart):
			return exitDecoderStart
		default:
			return exitConnectFailed
		}
	}
	defer in.Close()

	obs := geometry.Observer{
		Latitude:  cfg.Observer.Latitude,
		Longitude: cfg.Observer.Longitude,
		Altitude:  cfg.Observer.Altitude,
	}

	tracker := sbs.NewTracker(logger)
	tracker.Verbose = *verbose

	speaker := speech.NewSpeaker(espeak, logger)
	sched := announce.New(announce.Config{
		MinAngle:          cfg.Announce.MinAngleDeg,
		Wait:              time.Duration(cfg.Announce.WaitSeconds) * time.Second,
		RoutineCooldown:   time.Duration(cfg.Announce.RoutineCooldownSeconds) * time.Second,
		EmergencyCooldown: time.Duration(cfg.Announce.EmergencyCooldownSeconds) * time.Second,
	}, obs, speaker, logger)

	ctx := context.Background()
	var database *db.DB
	if cfg.Database.Enabled {
		database, err = db.ConnectWithRetry(cfg.Database, 3, time.Second, logger)
		if err != nil {
			logger.Printf("database: %v", err)
			return exitDatabaseFailed
		}
		defer database.Close()
		if err := database.InitSchema(ctx); err != nil {
			logger.Printf("database schema: %v", err)
			return exitDatabaseFailed
		}

		repo := db.NewSightingRepository(database)
		sched.OnAnnounce = func(s announce.Sighting) {
			if err := repo.Record(ctx, s); err != nil {
				logger.Printf("sighting log: %v", err)
			}
		}
		logger.Printf("sighting log enabled (%s/%s)",
			cfg.Database.Host, cfg.Database.Database)
	}

	// Reader goroutine: the main loop must keep servicing the speaker
	// and the display even when the stream goes quiet.
	lines := make(chan string, 64)
	go func() {
		defer close(lines)
		for {
			line, err := in.ReadLine()
			if err != nil {
				if err != io.EOF {
					logger.Printf("feed: %v", err)
				}
				return
			}
			lines <- line
		}
	}()

	sigc := make(chan os.Signal, 2)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	var view *display.View
	quit := make(chan struct{})
	if cfg.Display.Enabled {
		view = display.NewView(obs, cfg.Display.MaxRows, func() {
			close(quit)
		})
		go func() {
			if err := view.Run(); err != nil {
				logger.Printf("display: %v", err)
			}
		}()
		defer view.Stop()
	}
	refresh := rate.NewLimiter(
		rate.Every(time.Duration(cfg.Display.RefreshMillis)*time.Millisecond), 1)

	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	cleanup := time.NewTicker(dbCleanupInterval)
	defer cleanup.Stop()

	shutdown := func() int {
		rc := drain(sched, sigc, logger)
		if database != nil {
			if stats, err := database.GetStats(ctx); err == nil {
				logger.Printf("sighting log: %v sightings (%v emergencies, %v aircraft)",
					stats["sightings"], stats["emergency_sightings"],
					stats["distinct_aircraft"])
			}
		}
		return rc
	}

	for {
		now := time.Now()

		select {
		case line, ok := <-lines:
			if !ok {
				logger.Print("stream closed, draining announcements")
				return shutdown()
			}

			icao, err := tracker.Parse(line, now)
			if errors.Is(err, sbs.ErrEndOfStream) {
				logger.Print("end of stream, draining announcements")
				return shutdown()
			}
			if icao != "" {
				sched.Evaluate(tracker.Get(icao), now)
			}

		case <-tick.C:

		case <-cleanup.C:
			if database != nil {
				if err := database.CleanupOldData(ctx, 7*24*time.Hour); err != nil {
					logger.Printf("sighting log cleanup: %v", err)
				}
			}

		case <-sigc:
			logger.Printf("interrupted, draining %d pending announcements (interrupt again to abort)",
				sched.PendingCount())
			return shutdown()

		case <-quit:
			return shutdown()
		}

		if err := sched.Service(now); err != nil {
			logger.Printf("espeak: %v", err)
			return exitEspeakMissing
		}

		if view != nil && refresh.Allow() {
			view.Update(tracker, now)
		}
	}
}

// querySightings prints rows from the sighting log and exits without
// touching the feed or the speaker.
func querySightings(cfg *config.Config, recent int, history string, logger *log.Logger) int {
	if !cfg.Database.Enabled {
		fmt.Fprintln(os.Stderr, "the sighting log is not enabled in the configuration")
		return exitDatabaseFailed
	}

	database, err := db.Connect(cfg.Database)
	if err != nil {
		logger.Printf("database: %v", err)
		return exitDatabaseFailed
	}
	defer database.Close()

	ctx := context.Background()
	repo := db.NewSightingRepository(database)

	var recs []db.SightingRecord
	if history != "" {
		recs, err = repo.History(ctx, strings.ToUpper(history))
	} else {
		recs, err = repo.Recent(ctx, recent)
	}
	if err != nil {
		logger.Printf("database: %v", err)
		return exitDatabaseFailed
	}

	for _, r := range recs {
		flag := " "
		if r.Emergency {
			flag = "!"
		}
		fmt.Printf("%s %s %-6s %-7s %4.0f° %3.0f° %5.1fmi  %s\n",
			r.AnnouncedAt.Local().Format("2006-01-02 15:04:05"), flag,
			r.ICAO, r.Callsign, r.BearingDeg, r.ElevationDeg,
			r.DistanceFt/geometry.FeetPerMile, r.Announcement)
	}
	return 0
}

// drain speaks everything still queued before exiting. A second
// interrupt aborts the drain and silences the speaker.
func drain(sched *announce.Scheduler, sigc <-chan os.Signal, logger *log.Logger) int {
	abort := make(chan struct{})
	go func() {
		<-sigc
		close(abort)
	}()

	if err := sched.Drain(abort); err != nil {
		logger.Printf("espeak: %v", err)
		return exitEspeakMissing
	}
	return 0
}

// buildLogger wires console and file logging. The console is silenced
// under the live display and with -q; the log file always gets
// everything.
func buildLogger(liveDisplay, quiet bool, logPath string) (*log.Logger, func(), error) {
	var sinks []io.Writer
	closeLogs := func() {}

	if !liveDisplay && !quiet {
		sinks = append(sinks, os.Stderr)
	}
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, f)
		closeLogs = func() { f.Close() }
	}
	if len(sinks) == 0 {
		return log.New(io.Discard, "", 0), closeLogs, nil
	}

	return log.New(io.MultiWriter(sinks...), "planeyeller ", log.LstdFlags), closeLogs, nil
}
