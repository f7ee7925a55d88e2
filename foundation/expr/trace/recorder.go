// File: recorder.go
// Title: Event Recorder and Fan-out
// Description: Recorder keeps events for later rendering; Tee forwards each
//              event to several sinks.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-12
// Modified: 2026-10-12
//
// Change History:
// - 2026-10-12 v0.1.0: Initial implementation

package trace

// Recorder stores every event it receives
type Recorder struct {
	events []Event
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Emit implements Sink
func (r *Recorder) Emit(e Event) {
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events
func (r *Recorder) Events() []Event {
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Len returns the number of recorded events
func (r *Recorder) Len() int {
	return len(r.events)
}

// Replay sends every recorded event to sink in order
func (r *Recorder) Replay(sink Sink) {
	for _, e := range r.events {
		sink.Emit(e)
	}
}

// Reset drops the recorded events
func (r *Recorder) Reset() {
	r.events = r.events[:0]
}

// Tee returns a sink forwarding each event to all non-nil sinks in order
func Tee(sinks ...Sink) Sink {
	var active []Sink
	for _, s := range sinks {
		if s != nil {
			active = append(active, s)
		}
	}
	if len(active) == 1 {
		return active[0]
	}
	return SinkFunc(func(e Event) {
		for _, s := range active {
			s.Emit(e)
		}
	})
}
