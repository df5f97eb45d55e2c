package landmark

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/gocarina/gocsv"
)

// Row is one landmark of one hand in one frame of a recording.
// A frame without hands is stored as a single row with Hand = -1.
type Row struct {
	Frame    int     `csv:"frame"`
	Hand     int     `csv:"hand"`
	Landmark int     `csv:"landmark"`
	X        float64 `csv:"x"`
	Y        float64 `csv:"y"`
	Z        float64 `csv:"z"`
}

// Recording replays pre-captured landmark frames. It implements Detector by
// keying on the frame sequence number, so it pairs with a TickerCamera.
type Recording struct {
	frames [][]Hand
	loop   bool
}

// NewRecording wraps already-built frames.
func NewRecording(frames [][]Hand, loop bool) *Recording {
	return &Recording{frames: frames, loop: loop}
}

// LoadRecording reads a CSV recording from disk.
func LoadRecording(path string, loop bool) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening recording: %w", err)
	}
	defer f.Close()
	return ReadRecording(f, loop)
}

// ReadRecording parses CSV rows into frames. Hands are returned exactly as
// recorded; a hand with missing rows is kept short so the classifier can reject it.
func ReadRecording(r io.Reader, loop bool) (*Recording, error) {
	var rows []Row
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("parsing recording: %w", err)
	}

	numFrames := 0
	for _, row := range rows {
		if row.Frame < 0 {
			return nil, fmt.Errorf("parsing recording: negative frame %d", row.Frame)
		}
		if row.Frame+1 > numFrames {
			numFrames = row.Frame + 1
		}
	}

	type key struct{ frame, hand int }
	grouped := make(map[key][]Row)
	for _, row := range rows {
		if row.Hand < 0 {
			continue
		}
		k := key{row.Frame, row.Hand}
		grouped[k] = append(grouped[k], row)
	}

	frames := make([][]Hand, numFrames)
	keys := make([]key, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].frame != keys[j].frame {
			return keys[i].frame < keys[j].frame
		}
		return keys[i].hand < keys[j].hand
	})

	for _, k := range keys {
		hr := grouped[k]
		sort.Slice(hr, func(i, j int) bool { return hr[i].Landmark < hr[j].Landmark })
		hand := make(Hand, len(hr))
		for i, row := range hr {
			hand[i] = Point{X: row.X, Y: row.Y, Z: row.Z}
		}
		frames[k.frame] = append(frames[k.frame], hand)
	}

	return &Recording{frames: frames, loop: loop}, nil
}

// WriteRecording encodes frames as CSV rows.
func WriteRecording(w io.Writer, frames [][]Hand) error {
	rows := make([]Row, 0, len(frames)*NumLandmarks)
	for fi, hands := range frames {
		if len(hands) == 0 {
			rows = append(rows, Row{Frame: fi, Hand: -1, Landmark: -1})
			continue
		}
		for hi, hand := range hands {
			for li, p := range hand {
				rows = append(rows, Row{Frame: fi, Hand: hi, Landmark: li, X: p.X, Y: p.Y, Z: p.Z})
			}
		}
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("writing recording: %w", err)
	}
	return nil
}

// Len returns the number of frames in the recording.
func (r *Recording) Len() int {
	return len(r.frames)
}

// Detect returns the hands recorded for frame f.Seq. Past the end of a
// non-looping recording it reports no hands. Returned hands are shared and
// must not be modified.
func (r *Recording) Detect(ctx context.Context, f Frame) ([]Hand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(r.frames) == 0 {
		return nil, nil
	}
	idx := f.Seq
	if r.loop {
		idx %= uint64(len(r.frames))
	} else if idx >= uint64(len(r.frames)) {
		return nil, nil
	}
	return r.frames[idx], nil
}
