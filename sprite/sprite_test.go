package sprite

import (
	"sync"
	"testing"
)

func alphaAt(t *testing.T, k Kind, x, y int) uint8 {
	t.Helper()
	return NewProvider().Get(k).RGBAAt(x, y).A
}

func TestSpriteSize(t *testing.T) {
	p := NewProvider()
	for _, k := range Kinds() {
		img := p.Get(k)
		if b := img.Bounds(); b.Dx() != Size || b.Dy() != Size {
			t.Errorf("%v: bounds %v, want %dx%d", k, b, Size, Size)
		}
	}
}

func TestSpriteShapes(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		x, y int
		minA uint8
		maxA uint8
	}{
		{"shard center", Shard, 32, 32, 250, 255},
		{"shard corner", Shard, 2, 2, 0, 0},
		{"glow center", Glow, 32, 32, 230, 255},
		{"glow corner", Glow, 0, 0, 0, 0},
		{"spark center", Spark, 32, 32, 250, 255},
		{"spark arm", Spark, 31, 4, 120, 136},
		{"spark corner", Spark, 4, 4, 0, 0},
		{"petal body", Petal, 32, 40, 100, 240},
		{"petal outside", Petal, 2, 2, 0, 0},
		{"meteor head", Meteor, 58, 6, 250, 255},
		{"meteor off streak", Meteor, 10, 10, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := alphaAt(t, tt.kind, tt.x, tt.y)
			if a < tt.minA || a > tt.maxA {
				t.Errorf("alpha at (%d,%d) = %d, want [%d,%d]", tt.x, tt.y, a, tt.minA, tt.maxA)
			}
		})
	}
}

func TestMeteorTailFades(t *testing.T) {
	img := NewProvider().Get(Meteor)
	head := img.RGBAAt(52, 13).A
	tail := img.RGBAAt(12, 54).A
	if !(head > tail) {
		t.Errorf("tail alpha %d should be below head-side alpha %d", tail, head)
	}
}

func TestProviderCaches(t *testing.T) {
	p := NewProvider()

	var wg sync.WaitGroup
	got := make([]any, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = p.Get(Petal)
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(got); i++ {
		if got[i] != got[0] {
			t.Fatal("Get returned different images for the same kind")
		}
	}
	if p.Get(Shard) == p.Get(Glow) {
		t.Error("distinct kinds share an image")
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("comet"); err == nil {
		t.Error("expected error for unknown sprite")
	}
}
