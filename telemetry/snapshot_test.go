package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/heartstorm/gesture"
	"github.com/pthm-cable/heartstorm/systems"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version: SnapshotVersion,
		RunID:   "run",
		Seed:    42,
		Frame:   1000,
		Time:    16.5,
		Gesture: gesture.State{HandDetected: true, IsTrigger: true, RotationTargetX: 0.25},
		Anim: systems.AnimState{
			Mode:    systems.ModeBeating,
			Jump:    1.1,
			Explode: 0.3,
		},
		Counts:   map[string]int{"core": 10, "rain": 4},
		Recycled: map[string]uint64{"rain": 7},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if filepath.Base(path) != "snapshot_1000.json" {
		t.Errorf("unexpected filename: %s", path)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("snapshot file not created: %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.Seed != snapshot.Seed || loaded.Frame != snapshot.Frame || loaded.Time != snapshot.Time {
		t.Errorf("header mismatch: got %+v", loaded)
	}
	if loaded.Gesture != snapshot.Gesture {
		t.Errorf("gesture mismatch: got %+v, want %+v", loaded.Gesture, snapshot.Gesture)
	}
	if loaded.Anim != snapshot.Anim {
		t.Errorf("anim mismatch: got %+v, want %+v", loaded.Anim, snapshot.Anim)
	}
	if loaded.Counts["core"] != 10 || loaded.Recycled["rain"] != 7 {
		t.Errorf("counts mismatch: %v %v", loaded.Counts, loaded.Recycled)
	}
}

func TestLoadSnapshotRejectsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	if err := os.WriteFile(path, []byte(`{"version": 99}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("expected version error")
	}
}

func TestAppendTransitions(t *testing.T) {
	idle := gesture.DefaultState()
	fist := gesture.State{HandDetected: true}
	thumbs := gesture.State{HandDetected: true, IsTrigger: true}

	tests := []struct {
		name       string
		prev, next gesture.State
		want       []EventType
	}{
		{"none", idle, idle, nil},
		{"hand closes", idle, fist, []EventType{EventHandFound, EventClose}},
		{"trigger", fist, thumbs, []EventType{EventTriggerOn}},
		{"hand lost", thumbs, idle, []EventType{EventHandLost, EventOpen, EventTriggerOff}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AppendTransitions(nil, tt.prev, tt.next)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("event %d = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}
