package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/heartstorm/config"
	"github.com/pthm-cable/heartstorm/gesture"
	"github.com/pthm-cable/heartstorm/landmark"
	"github.com/pthm-cable/heartstorm/renderer"
	"github.com/pthm-cable/heartstorm/scene"
	"github.com/pthm-cable/heartstorm/sprite"
	"github.com/pthm-cable/heartstorm/telemetry"
)

type options struct {
	configPath string
	headless   bool
	landmarks  string
	seed       uint64
	maxFrames  int64
	outputDir  string
	logStats   bool
}

func main() {
	// CLI flags
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Path to config.yaml (empty = use defaults)")
	flag.BoolVar(&opts.headless, "headless", false, "Run without graphics at the fixed step")
	flag.StringVar(&opts.landmarks, "landmarks", "", "Landmark recording CSV to replay (empty = built-in gesture script)")
	flag.Uint64Var(&opts.seed, "seed", 0, "RNG seed (0 = config seed, then time-based)")
	flag.Int64Var(&opts.maxFrames, "max-frames", 0, "Stop after N frames (0 = unlimited)")
	flag.StringVar(&opts.outputDir, "output-dir", "", "Output directory for CSV logs and config snapshot")
	flag.BoolVar(&opts.logStats, "log-stats", false, "Output stats via slog")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(opts); err != nil {
		slog.Error("heartstorm failed", "error", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	// Initialize config before anything else
	if err := config.Init(opts.configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Cfg()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	output, err := telemetry.NewOutputManager(opts.outputDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := output.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}()
	if err := output.WriteConfig(cfg); err != nil {
		return err
	}

	recording, err := loadLandmarks(opts.landmarks, cfg.Tracker.Loop)
	if err != nil {
		return err
	}
	classifier := gesture.NewClassifier(cfg.Gesture)

	if opts.headless {
		return runHeadless(ctx, cfg, opts, output, recording, classifier)
	}
	return runViewer(ctx, cfg, opts, output, recording, classifier)
}

// loadLandmarks opens a recording, or builds the default gesture script.
func loadLandmarks(path string, loop bool) (*landmark.Recording, error) {
	if path != "" {
		rec, err := landmark.LoadRecording(path, loop)
		if err != nil {
			return nil, err
		}
		slog.Info("replaying landmarks", "path", path, "frames", rec.Len(), "loop", loop)
		return rec, nil
	}
	steps, err := landmark.ParseScript(landmark.DefaultScript)
	if err != nil {
		return nil, err
	}
	return landmark.NewRecording(landmark.BuildScript(steps, 0.18, 0.12, 240), true), nil
}

// runHeadless steps the scene at the fixed dt and classifies the recording
// frame that falls on the scene clock, so runs are reproducible.
func runHeadless(ctx context.Context, cfg *config.Config, opts options, output *telemetry.OutputManager,
	rec *landmark.Recording, cls *gesture.Classifier) error {
	sc, err := scene.New(cfg, scene.Options{
		Seed:     opts.seed,
		LogStats: opts.logStats,
		Output:   output,
	})
	if err != nil {
		return err
	}
	defer sc.Unload()

	dt := cfg.Simulation.FixedDT
	slog.Info("starting headless run",
		"seed", sc.Seed(),
		"run_id", output.RunID(),
		"dt", dt,
		"max_frames", opts.maxFrames,
		"particles", cfg.TotalParticles(),
	)

	g := gesture.DefaultState()
	var seq uint64 = math.MaxUint64
	for ctx.Err() == nil {
		if next := uint64(sc.Time() * cfg.Tracker.FrameRate); next != seq {
			seq = next
			hands, err := rec.Detect(ctx, landmark.Frame{Seq: seq})
			if err != nil {
				break
			}
			state, err := cls.Classify(hands, g)
			if err != nil && !errors.Is(err, gesture.ErrDegenerateGeometry) {
				slog.Debug("frame rejected", "seq", seq, "error", err)
			}
			g = state
		}

		sc.Update(dt, g)

		if opts.maxFrames > 0 && sc.Frame() >= opts.maxFrames {
			slog.Info("max frames reached", "frame", sc.Frame(), "t", sc.Time())
			break
		}
	}

	if output != nil {
		saveSnapshot(sc, output)
	}
	slog.Info("headless run finished", "frame", sc.Frame(), "perf", sc.Perf().Stats())
	return nil
}

// saveSnapshot writes the scene's control state next to the run's CSVs, or
// to the working directory when output is disabled.
func saveSnapshot(sc *scene.Scene, output *telemetry.OutputManager) {
	snap := sc.Snapshot()
	var (
		path string
		err  error
	)
	if output != nil {
		path, err = output.WriteSnapshot(snap)
	} else {
		path, err = telemetry.SaveSnapshot(snap, ".")
	}
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "frame", snap.Frame)
}

// runViewer opens the window and drives the scene from the tracker.
func runViewer(ctx context.Context, cfg *config.Config, opts options, output *telemetry.OutputManager,
	rec *landmark.Recording, cls *gesture.Classifier) error {
	pub := gesture.NewPublisher(gesture.DefaultState())
	camera := landmark.NewTickerCamera(cfg.Tracker.FrameRate, cfg.Tracker.Width, cfg.Tracker.Height)
	tracker := gesture.NewTracker(camera, rec, cls, pub, cfg.Tracker.MaxHands, slog.With("component", "tracker"))

	trackerCtx, cancelTracker := context.WithCancel(ctx)
	trackerDone := make(chan struct{})
	go func() {
		defer close(trackerDone)
		if err := tracker.Run(trackerCtx); err != nil {
			slog.Warn("tracker stopped", "error", err)
		}
	}()
	defer func() {
		cancelTracker()
		<-trackerDone
	}()

	sc, err := scene.New(cfg, scene.Options{
		Seed:         opts.seed,
		LogStats:     opts.logStats,
		Output:       output,
		TrackerStats: tracker.Stats,
	})
	if err != nil {
		return err
	}
	defer sc.Unload()

	// Graphical mode
	rl.SetTraceLogLevel(rl.LogWarning)
	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Heartstorm")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	r := renderer.NewRenderer(cfg, sprite.NewProvider())
	defer r.Unload()
	hud := renderer.NewHUD(cfg.Screen.ShowHUD, time.Duration(cfg.Tracker.StaleTimeout*float64(time.Second)))

	slog.Info("starting viewer",
		"seed", sc.Seed(),
		"run_id", output.RunID(),
		"particles", cfg.TotalParticles(),
	)

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		hud.HandleInput()
		if rl.IsKeyPressed(rl.KeyS) {
			saveSnapshot(sc, output)
		}

		g := hud.Override().Apply(pub.Load())
		sc.Update(float64(rl.GetFrameTime()), g)
		r.Draw(sc.Layers(), sc.HeartTransform())

		rl.BeginDrawing()
		r.Present()
		hud.Draw(r, renderer.HUDInfo{
			Gesture:  g,
			Anim:     sc.Anim(),
			Tracker:  tracker.Stats(),
			LastSeen: tracker.LastSeen(),
			Perf:     sc.Perf().Stats(),
			Counts:   sc.Counts(),
			Time:     sc.Time(),
		})
		rl.EndDrawing()
		sc.Perf().RecordPresent()

		if opts.maxFrames > 0 && sc.Frame() >= opts.maxFrames {
			slog.Info("max frames reached", "frame", sc.Frame())
			break
		}
	}
	return nil
}
