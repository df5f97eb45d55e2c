// Package main writes a scripted landmark recording for replay with
// heartstorm -landmarks.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/pthm-cable/heartstorm/landmark"
)

func main() {
	// CLI flags
	script := flag.String("script", landmark.DefaultScript, "Comma separated pose:frames steps (poses: open, fist, thumbs_up, none)")
	out := flag.String("out", "gestures.csv", "Output CSV path (- = stdout)")
	scale := flag.Float64("scale", 0.18, "Palm length in normalized image units")
	sway := flag.Float64("sway", 0.12, "Horizontal sway amplitude around the image center")
	period := flag.Int("period", 240, "Frames per sway cycle")
	repeat := flag.Int("repeat", 1, "Number of times the script is repeated")

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	steps, err := landmark.ParseScript(*script)
	if err != nil {
		slog.Error("invalid script", "error", err)
		os.Exit(1)
	}
	base := steps
	for i := 1; i < *repeat; i++ {
		steps = append(steps, base...)
	}
	frames := landmark.BuildScript(steps, *scale, *sway, *period)

	w := os.Stdout
	if *out != "-" {
		f, err := os.Create(*out)
		if err != nil {
			slog.Error("failed to create output", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	if err := landmark.WriteRecording(w, frames); err != nil {
		slog.Error("failed to write recording", "error", err)
		os.Exit(1)
	}
	slog.Info("recording written", "path", *out, "frames", len(frames), "steps", len(steps))
}
