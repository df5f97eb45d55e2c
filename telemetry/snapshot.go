package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/heartstorm/gesture"
	"github.com/pthm-cable/heartstorm/systems"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot records the scene's control state at one frame. Particle buffers
// are not stored; they are reproducible from the seed and the gesture history.
type Snapshot struct {
	Version int    `json:"version"`
	RunID   string `json:"run_id,omitempty"`
	Seed    uint64 `json:"seed"`

	Frame int64   `json:"frame"`
	Time  float64 `json:"sim_time"`

	Gesture gesture.State     `json:"gesture"`
	Anim    systems.AnimState `json:"anim"`

	Counts   map[string]int    `json:"counts"`
	Recycled map[string]uint64 `json:"recycled"`
}

// SaveSnapshot writes a snapshot to dir as snapshot_<frame>.json.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("snapshot_%d.json", snapshot.Frame))

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
