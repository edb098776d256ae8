// Package timing reports named phase durations to an external collector.
// The write path records how long each of its phases took (acquiring a store
// handle, resolving a version, updating the counter) without prescribing
// where those measurements go.
package timing

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Recorder receives named phase durations.
type Recorder interface {
	// Record runs fn, measures its duration, reports it under the phase
	// name, and returns fn's error unchanged.
	Record(phase string, fn func() error) error

	// Observe reports an already-measured duration for a phase.
	Observe(phase string, d time.Duration)
}

// LogRecorder reports phase durations as structured log fields.
type LogRecorder struct {
	operation string
}

// NewLogRecorder creates a LogRecorder scoped to an operation name.
func NewLogRecorder(operation string) *LogRecorder {
	return &LogRecorder{operation: operation}
}

// Record implements Recorder.
func (r *LogRecorder) Record(phase string, fn func() error) error {
	start := time.Now()
	err := fn()
	r.Observe(phase, time.Since(start))
	return err
}

// Observe implements Recorder.
func (r *LogRecorder) Observe(phase string, d time.Duration) {
	logrus.WithFields(logrus.Fields{
		"operation":   r.operation,
		"phase":       phase,
		"duration_ms": float64(d.Microseconds()) / 1000.0,
	}).Debug("phase completed")
}

// NopRecorder discards all measurements.
type NopRecorder struct{}

// Record implements Recorder.
func (NopRecorder) Record(phase string, fn func() error) error {
	return fn()
}

// Observe implements Recorder.
func (NopRecorder) Observe(string, time.Duration) {}
