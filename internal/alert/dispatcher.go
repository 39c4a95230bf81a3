// Package alert converts confirmed rubbing detections into outward
// notifications, enforcing a process-wide cooldown between alerts.
package alert

import (
	"log"
	"sync"
	"time"
)

// Outcome describes what MaybeAlert did with a frame's signal.
type Outcome string

const (
	// OutcomeNone means the frame carried no confirmed detection.
	OutcomeNone Outcome = "none"
	// OutcomeDispatched means an alert was sent to the sinks.
	OutcomeDispatched Outcome = "dispatched"
	// OutcomeSuppressed means a confirmed detection fell inside the
	// cooldown window and was dropped.
	OutcomeSuppressed Outcome = "suppressed"
)

// Sink receives dispatched alerts. Implementations must tolerate being
// called from the frame loop; a failing sink is logged and skipped, never
// fatal.
type Sink interface {
	// Name identifies the sink in logs.
	Name() string

	// Notify delivers one alert fired at the given time.
	Notify(at time.Time) error
}

// Dispatcher owns the process-wide alert state: the timestamp of the last
// dispatched alert. The cooldown is shared across all (hand, eye) pairs,
// so at most one alert fires per window no matter which eye or hand
// triggered it. The cooldown timer advances on every attempted dispatch,
// so a broken sink cannot cause alert storms on the remaining ones.
type Dispatcher struct {
	cooldown time.Duration
	sinks    []Sink

	mu        sync.Mutex
	lastAlert time.Time // zero value means "never"
}

// NewDispatcher creates a Dispatcher with the given cooldown and sinks.
// A zero cooldown dispatches on every confirmed frame.
func NewDispatcher(cooldown time.Duration, sinks ...Sink) *Dispatcher {
	return &Dispatcher{
		cooldown: cooldown,
		sinks:    sinks,
	}
}

// AddSink registers an additional sink.
func (d *Dispatcher) AddSink(s Sink) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sinks = append(d.sinks, s)
}

// MaybeAlert converts a frame's confirmed signal into at most one alert.
// Not confirmed is a no-op. Confirmed inside the cooldown window is
// suppressed. Otherwise every sink is notified and the cooldown restarts
// from now.
func (d *Dispatcher) MaybeAlert(confirmed bool, now time.Time) Outcome {
	if !confirmed {
		return OutcomeNone
	}

	d.mu.Lock()
	if !d.lastAlert.IsZero() && now.Sub(d.lastAlert) < d.cooldown {
		d.mu.Unlock()
		return OutcomeSuppressed
	}
	if now.After(d.lastAlert) {
		d.lastAlert = now
	}
	sinks := d.sinks
	d.mu.Unlock()

	for _, sink := range sinks {
		if err := sink.Notify(now); err != nil {
			log.Printf("alert sink %s failed: %v", sink.Name(), err)
		}
	}

	return OutcomeDispatched
}

// LastAlert returns the time of the last dispatched alert, and whether
// one has been dispatched at all.
func (d *Dispatcher) LastAlert() (time.Time, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastAlert, !d.lastAlert.IsZero()
}
