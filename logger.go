package citypandemic

import "os"

// DataLogger is the general definition of a logger that records run data
// to file, whether it writes text or a database. Grounded on the
// teacher's DataLogger (logger.go): a SetBasePath/Init pair plus one
// channel-consuming Write* method per record kind, so the orchestrator
// can fan writes out to a goroutine without blocking the simulation loop
// on I/O.
type DataLogger interface {
	// SetBasePath sets the base path of the logger for realization i.
	SetBasePath(path string, i int)
	// Init creates whatever backing store this logger needs (files,
	// tables) before the first write.
	Init() error
	// WriteTransitions records every disease state transition.
	WriteTransitions(c <-chan TransitionRecord)
	// WriteTransmissions records every successful exposure trial.
	WriteTransmissions(c <-chan TransmissionRecord)
	// WritePollSamples records one summary row per Poll tick.
	WritePollSamples(c <-chan PollRecord)
}

// TransitionRecord is written every time a person's disease state
// advances (spec §4.C).
type TransitionRecord struct {
	InstanceID int
	Person     PersonID
	From       StateKind
	To         StateKind
	At         Time
}

// TransmissionRecord is written every time a transmission trial succeeds
// (becomeExposed in model.go).
type TransmissionRecord struct {
	InstanceID int
	Source     PersonID
	Target     PersonID
	Overlap    Duration
	At         Time
}

// PollRecord is written once per Poll tick (spec §4.D): a population-wide
// snapshot of the airborne concentration field and who was exposed to it.
type PollRecord struct {
	InstanceID        int
	At                Time
	InfectiousCount   int
	SusceptibleCount  int
	NewlyExposedCount int
	MeanConcentration float64
}

// LogFeeds is the set of record channels a PandemicModel writes to once
// logging is enabled (EnableLogging in model.go). The caller pairs each
// channel with the matching DataLogger.Write* method, typically one
// goroutine per channel, so the hot loop never blocks on I/O.
type LogFeeds struct {
	Transitions   <-chan TransitionRecord
	Transmissions <-chan TransmissionRecord
	Polls         <-chan PollRecord
}

// NewFile creates a new file on the given path, truncating it if it
// already exists (each realization's CSV logger owns its own path, so an
// existing file from a prior run is safe to overwrite here).
func NewFile(path string, b []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(b); err != nil {
		return err
	}
	return f.Sync()
}

// AppendToFile creates a new file on the given path if it does not
// exist, or appends to the end of the existing file if the file exists.
func AppendToFile(path string, b []byte) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(b); err != nil {
		return err
	}
	return f.Sync()
}
