package components

import "fmt"

// String returns the layer name used in config, logs and telemetry.
func (k LayerKind) String() string {
	names := LayerNames()
	if int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("layer(%d)", uint8(k))
}

// LayerNames returns the names of all layers.
// The order matches the LayerKind constants.
func LayerNames() []string {
	return []string{"core", "shard", "petal", "firefly", "shooting_star", "rose_storm", "rain"}
}

// String returns the blend mode name.
func (m BlendMode) String() string {
	switch m {
	case BlendAdditive:
		return "additive"
	case BlendNormal:
		return "normal"
	default:
		return "unknown"
	}
}
