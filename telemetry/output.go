package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"

	"github.com/pthm-cable/heartstorm/config"
)

// OutputManager writes a run's telemetry as CSV under its own directory.
type OutputManager struct {
	dir       string
	runID     string
	statsFile  *os.File
	perfFile   *os.File
	eventsFile *os.File

	statsHeaderWritten  bool
	perfHeaderWritten   bool
	eventsHeaderWritten bool
}

// NewOutputManager creates <root>/<run id>/ with stats.csv, perf.csv and
// events.csv.
// Returns nil if root is empty (output disabled).
func NewOutputManager(root string) (*OutputManager, error) {
	if root == "" {
		return nil, nil
	}

	runID := uuid.NewString()
	dir := filepath.Join(root, runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir, runID: runID}

	f, err := os.Create(filepath.Join(dir, "stats.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating stats.csv: %w", err)
	}
	om.statsFile = f

	f, err = os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		om.statsFile.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	f, err = os.Create(filepath.Join(dir, "events.csv"))
	if err != nil {
		om.statsFile.Close()
		om.perfFile.Close()
		return nil, fmt.Errorf("creating events.csv: %w", err)
	}
	om.eventsFile = f

	return om, nil
}

// RunID returns the run identifier, or "" when output is disabled.
func (om *OutputManager) RunID() string {
	if om == nil {
		return ""
	}
	return om.runID
}

// WriteConfig saves the effective configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteStats appends a window stats row to stats.csv.
func (om *OutputManager) WriteStats(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := writeRow(om.statsFile, []WindowStats{stats}, &om.statsHeaderWritten); err != nil {
		return fmt.Errorf("writing stats: %w", err)
	}
	return nil
}

// WritePerf appends a performance row to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, frame int64) error {
	if om == nil {
		return nil
	}
	rows := []PerfStatsCSV{stats.ToCSV(om.runID, frame)}
	if err := writeRow(om.perfFile, rows, &om.perfHeaderWritten); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteEvents appends gesture transitions to events.csv.
func (om *OutputManager) WriteEvents(events []Event) error {
	if om == nil || len(events) == 0 {
		return nil
	}
	if err := writeRow(om.eventsFile, events, &om.eventsHeaderWritten); err != nil {
		return fmt.Errorf("writing events: %w", err)
	}
	return nil
}

// WriteSnapshot saves a snapshot into the run directory.
func (om *OutputManager) WriteSnapshot(s *Snapshot) (string, error) {
	if om == nil {
		return "", nil
	}
	s.RunID = om.runID
	return SaveSnapshot(s, om.dir)
}

// writeRow marshals rows, emitting the header only on the first write.
func writeRow(f *os.File, rows any, headerWritten *bool) error {
	if *headerWritten {
		return gocsv.MarshalWithoutHeaders(rows, f)
	}
	if err := gocsv.Marshal(rows, f); err != nil {
		return err
	}
	*headerWritten = true
	return nil
}

// Dir returns the run directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, f := range []*os.File{om.statsFile, om.perfFile, om.eventsFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
