package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/pthm-cable/heartstorm/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v", om, err)
	}
	// nil manager is a no-op
	if err := om.WriteStats(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
	if om.RunID() != "" || om.Dir() != "" {
		t.Error("nil manager should report empty run id and dir")
	}
}

func TestOutputManagerWritesRows(t *testing.T) {
	root := t.TempDir()
	om, err := NewOutputManager(root)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := uuid.Parse(om.RunID()); err != nil {
		t.Errorf("run id %q is not a uuid: %v", om.RunID(), err)
	}
	if om.Dir() != filepath.Join(root, om.RunID()) {
		t.Errorf("dir = %q", om.Dir())
	}

	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatal(err)
	}
	for i := int64(1); i <= 3; i++ {
		if err := om.WriteStats(WindowStats{RunID: om.RunID(), EndFrame: i * 300}); err != nil {
			t.Fatal(err)
		}
		if err := om.WritePerf(PerfStats{}, i*300); err != nil {
			t.Fatal(err)
		}
		if err := om.WriteEvents([]Event{NewEvent(om.RunID(), i*300, 0, EventTriggerOn)}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WriteEvents(nil); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"stats.csv", "perf.csv", "events.csv"} {
		data, err := os.ReadFile(filepath.Join(om.Dir(), name))
		if err != nil {
			t.Fatal(err)
		}
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 4 {
			t.Fatalf("%s has %d lines, want header + 3 rows", name, len(lines))
		}
		if !strings.HasPrefix(lines[0], "run_id,frame,") {
			t.Errorf("%s header = %q", name, lines[0])
		}
		if !strings.HasPrefix(lines[3], om.RunID()+",900,") {
			t.Errorf("%s last row = %q", name, lines[3])
		}
	}

	snapPath, err := om.WriteSnapshot(&Snapshot{Version: SnapshotVersion, Frame: 900})
	if err != nil {
		t.Fatal(err)
	}
	snap, err := LoadSnapshot(snapPath)
	if err != nil {
		t.Fatal(err)
	}
	if snap.RunID != om.RunID() {
		t.Errorf("snapshot run id = %q", snap.RunID)
	}

	cfg, err := config.Load(filepath.Join(om.Dir(), "config.yaml"))
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if cfg.TotalParticles() != config.Default().TotalParticles() {
		t.Error("written config changed particle counts")
	}
}
