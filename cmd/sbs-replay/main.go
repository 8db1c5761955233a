// Sbs-replay serves a captured raw SBS log (planeyeller -r) over TCP,
// standing in for a live dump1090 during development.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func main() {
	file := flag.String("f", "sbs.log", "File containing raw SBS records (one per line)")
	port := flag.Int("p", 30003, "Port to listen on")
	delay := flag.Duration("d", 100*time.Millisecond, "Delay between records")
	loop := flag.Bool("loop", false, "Loop records continuously")
	noUI := flag.Bool("no-ui", false, "Plain log output instead of the status screen")
	flag.Parse()

	records, err := readRecords(*file)
	if err != nil {
		log.Fatalf("Failed to read records: %v", err)
	}
	if len(records) == 0 {
		log.Fatalf("No SBS records in %s", *file)
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", *port))
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
	defer listener.Close()

	srv := &server{
		records: records,
		delay:   *delay,
		loop:    *loop,
	}
	go srv.acceptLoop(listener)

	if *noUI {
		log.Printf("Loaded %d records from %s", len(records), *file)
		log.Printf("Listening on port %d (delay %v, loop %v)", *port, *delay, *loop)
		select {}
	}

	m := model{
		srv:  srv,
		file: *file,
		port: *port,
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("UI error: %v", err)
	}
}

func readRecords(filename string) ([]string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// A raw capture can contain blank lines and junk; only MSG
		// records are worth replaying.
		if !strings.HasPrefix(line, "MSG,") {
			continue
		}
		records = append(records, line)
	}
	return records, scanner.Err()
}

// server streams the capture to every client that connects.
type server struct {
	records []string
	delay   time.Duration
	loop    bool

	mu        sync.Mutex
	clients   int
	served    int
	totalSent int64
}

func (s *server) acceptLoop(listener net.Listener) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		go s.handleClient(conn)
	}
}

func (s *server) handleClient(conn net.Conn) {
	defer conn.Close()

	s.mu.Lock()
	s.clients++
	s.served++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.clients--
		s.mu.Unlock()
	}()

	w := bufio.NewWriter(conn)
	for {
		for _, rec := range s.records {
			if _, err := w.WriteString(rec + "\n"); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}

			s.mu.Lock()
			s.totalSent++
			s.mu.Unlock()

			time.Sleep(s.delay)
		}
		if !s.loop {
			return
		}
	}
}

func (s *server) stats() (clients, served int, sent int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clients, s.served, s.totalSent
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// model is the status screen: static capture info plus live counters.
type model struct {
	srv  *server
	file string
	port int

	clients int
	served  int
	sent    int64
}

func (m model) Init() tea.Cmd {
	return tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tickMsg:
		m.clients, m.served, m.sent = m.srv.stats()
		return m, tick()
	}
	return m, nil
}

func (m model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("86")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	var b strings.Builder
	b.WriteString(titleStyle.Render(" SBS Replay ") + "\n\n")

	rows := []struct {
		label string
		value string
	}{
		{"Capture", m.file},
		{"Records", fmt.Sprintf("%d", len(m.srv.records))},
		{"Port", fmt.Sprintf("%d", m.port)},
		{"Pace", m.srv.delay.String()},
		{"Loop", fmt.Sprintf("%v", m.srv.loop)},
		{"Clients", fmt.Sprintf("%d connected, %d total", m.clients, m.served)},
		{"Sent", fmt.Sprintf("%d records", m.sent)},
	}
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %s %s\n",
			labelStyle.Render(fmt.Sprintf("%-8s", r.label)),
			valueStyle.Render(r.value)))
	}

	b.WriteString("\n" + helpStyle.Render("  q quit"))
	return b.String()
}
