package citypandemic

import (
	"bytes"
	"fmt"
	"os"
	"strings"
)

// CSVLogger is a DataLogger that writes run data as comma-delimited
// files, one per record kind, one set of files per realization. Adapted
// from the teacher's CSVLogger (csv_logger.go): SetBasePath derives a
// per-instance path suffix, Init writes headers, and each Write* method
// drains its channel into one buffered append.
type CSVLogger struct {
	transitionPath   string
	transmissionPath string
	pollPath         string
}

// NewCSVLogger creates a new logger that writes data into CSV files.
func NewCSVLogger(basepath string, i int) *CSVLogger {
	l := new(CSVLogger)
	l.SetBasePath(basepath, i)
	return l
}

// SetBasePath sets the base path of the logger.
func (l *CSVLogger) SetBasePath(basepath string, i int) {
	if info, err := os.Stat(basepath); err == nil && info.IsDir() {
		basepath += "log"
	}
	trimmed := strings.TrimSuffix(basepath, ".")
	l.transitionPath = trimmed + fmt.Sprintf(".%03d.%s.csv", i, "transitions")
	l.transmissionPath = trimmed + fmt.Sprintf(".%03d.%s.csv", i, "transmissions")
	l.pollPath = trimmed + fmt.Sprintf(".%03d.%s.csv", i, "polls")
}

// Init creates CSV files and writes header information for each file.
func (l *CSVLogger) Init() error {
	newFile := func(path, header string) error {
		var b bytes.Buffer
		b.WriteString(header)
		return NewFile(path, b.Bytes())
	}

	if err := newFile(l.transitionPath, "instance,person,from,to,at\n"); err != nil {
		return err
	}
	if err := newFile(l.transmissionPath, "instance,source,target,overlap,at\n"); err != nil {
		return err
	}
	if err := newFile(l.pollPath, "instance,at,infectious,susceptible,newly_exposed,mean_concentration\n"); err != nil {
		return err
	}
	return nil
}

// WriteTransitions records every disease state transition.
func (l *CSVLogger) WriteTransitions(c <-chan TransitionRecord) {
	const template = "%d,%s,%s,%s,%g\n"
	var b bytes.Buffer
	for r := range c {
		b.WriteString(fmt.Sprintf(template, r.InstanceID, r.Person, r.From, r.To, float64(r.At)))
	}
	AppendToFile(l.transitionPath, b.Bytes())
}

// WriteTransmissions records every successful exposure trial.
func (l *CSVLogger) WriteTransmissions(c <-chan TransmissionRecord) {
	const template = "%d,%s,%s,%g,%g\n"
	var b bytes.Buffer
	for r := range c {
		b.WriteString(fmt.Sprintf(template, r.InstanceID, r.Source, r.Target, float64(r.Overlap), float64(r.At)))
	}
	AppendToFile(l.transmissionPath, b.Bytes())
}

// WritePollSamples records one summary row per Poll tick.
func (l *CSVLogger) WritePollSamples(c <-chan PollRecord) {
	const template = "%d,%g,%d,%d,%d,%g\n"
	var b bytes.Buffer
	for r := range c {
		b.WriteString(fmt.Sprintf(template, r.InstanceID, float64(r.At), r.InfectiousCount, r.SusceptibleCount, r.NewlyExposedCount, r.MeanConcentration))
	}
	AppendToFile(l.pollPath, b.Bytes())
}
