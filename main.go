package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/magma/affect"
	"github.com/pthm-cable/magma/config"
	"github.com/pthm-cable/magma/engine"
	"github.com/pthm-cable/magma/renderer"
	"github.com/pthm-cable/magma/telemetry"
	"github.com/pthm-cable/magma/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	scriptPath := flag.String("script", "", "CSV keyframe script driving the affect input")
	seed := flag.Int64("seed", 0, "Turbulence seed override (0 = use config)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *seed != 0 {
		cfg.Fluid.NoiseSeed = *seed
	}
	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to set up output", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to snapshot config", "error", err)
		os.Exit(1)
	}

	var script *affect.Script
	if *scriptPath != "" {
		script, err = affect.LoadScript(*scriptPath)
		if err != nil {
			slog.Error("failed to load script", "error", err)
			os.Exit(1)
		}
	}

	slot := affect.NewSlot(affect.Sample{})
	e := engine.New(cfg, slot, engine.Options{
		LogStats: *logStats,
		Output:   output,
	})

	if *headless {
		runHeadless(e, slot, script, cfg, *maxTicks)
	} else {
		runGraphical(e, slot, script, cfg, *maxTicks)
	}
}

// runHeadless drives the engine at a fixed dt with no window. With no script
// the input holds at the neutral default sample.
func runHeadless(e *engine.Engine, slot *affect.Slot, script *affect.Script, cfg *config.Config, maxTicks int) {
	dt := 1.0 / float64(cfg.Screen.TargetFPS)

	slog.Info("starting headless run",
		"seed", cfg.Fluid.NoiseSeed,
		"dt", dt,
		"max_ticks", maxTicks,
	)

	for {
		if script != nil {
			script.Advance(dt, slot)
		}
		if _, err := e.Tick(dt); err != nil {
			slog.Error("tick failed", "error", err)
			os.Exit(1)
		}
		if maxTicks > 0 && e.TickCount() >= maxTicks {
			slog.Info("max ticks reached", "tick", e.TickCount())
			return
		}
	}
}

// runGraphical opens a raylib window. Input comes from the script when one
// was given, otherwise from the slider panel.
func runGraphical(e *engine.Engine, slot *affect.Slot, script *affect.Script, cfg *config.Config, maxTicks int) {
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Magma")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	view := renderer.NewLampView(int32(cfg.Screen.Width), int32(cfg.Screen.Height))
	panel := ui.NewVADPanel(float32(cfg.Screen.Width)-230, 10, 220)

	paused := false
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeySpace) {
			paused = !paused
		}

		if !paused {
			if script != nil {
				script.Advance(float64(rl.GetFrameTime()), slot)
			}
			if _, err := e.Step(); err != nil {
				slog.Error("tick failed", "error", err)
				break
			}
		}

		rl.BeginDrawing()
		view.Draw(e.Params(), e.Blobs(), e.SimTime())
		view.DrawHUD(e.TickCount(), e.BlobCount(), e.Energy(), paused)
		if script == nil {
			panel.Draw(slot)
		}
		rl.EndDrawing()

		if maxTicks > 0 && e.TickCount() >= maxTicks {
			break
		}
	}
}
