package alert

import (
	"log"
	"strings"
	"time"

	"github.com/jedawel/lenssafe/internal/store"
)

// ConsoleSink prints an alert banner to the process log.
type ConsoleSink struct{}

// Name implements Sink.
func (ConsoleSink) Name() string { return "console" }

// Notify implements Sink.
func (ConsoleSink) Notify(at time.Time) error {
	bar := strings.Repeat("=", 50)
	log.Printf("\n%s\nALERT: Eye rubbing detected! (%s)\n%s", bar, at.Format("2006-01-02 15:04:05"), bar)
	return nil
}

// FuncSink adapts a function into a Sink, used for in-process listeners
// such as the tray and the WebSocket event feed.
type FuncSink struct {
	SinkName string
	Fn       func(at time.Time)
}

// Name implements Sink.
func (s FuncSink) Name() string { return s.SinkName }

// Notify implements Sink.
func (s FuncSink) Notify(at time.Time) error {
	s.Fn(at)
	return nil
}

// StoreSink records dispatched alerts in the alert-event log.
type StoreSink struct {
	Alerts *store.AlertRepository
}

// Name implements Sink.
func (StoreSink) Name() string { return "store" }

// Notify implements Sink.
func (s StoreSink) Notify(at time.Time) error {
	_, err := s.Alerts.Create(at)
	return err
}
