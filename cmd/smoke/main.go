package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/viewframe/viewframe/internal/controller"
	"github.com/viewframe/viewframe/internal/layout"
	"github.com/viewframe/viewframe/internal/metrics"
	"github.com/viewframe/viewframe/internal/playback"
	"github.com/viewframe/viewframe/internal/settings"
	"github.com/viewframe/viewframe/internal/transition"
	"github.com/viewframe/viewframe/internal/util"
)

// Smoke runs the full transition pipeline headless: preference loading,
// mode cycling, video scaling, and metrics. It exits non-zero when the
// layout fails to land where it should, which makes it usable in CI.
func main() {
	prefsPath := flag.String("config", "", "path to YAML preferences (defaults when empty)")
	logLevel := flag.String("log-level", "info", "log level (trace|debug|info|warn|error)")
	flag.Parse()

	logger := util.NewLogger(util.ParseLogLevel(*logLevel))

	prefs := settings.Default()
	if *prefsPath != "" {
		loaded, err := settings.Load(*prefsPath)
		if err != nil {
			exitErr(fmt.Errorf("load preferences: %w", err))
		}
		prefs = loaded
		fmt.Printf("Loaded preferences from %s\n", *prefsPath)
	}

	binding := playback.NewFake()
	binding.SetAspect(16.0 / 9.0)
	collector := metrics.NewCollector(true)

	ctrl, err := controller.New(controller.Options{
		Logger:  logger,
		Metrics: collector,
		Binding: binding,
		Prefs:   prefs,
		Clock:   transition.ImmediateClock{},
	})
	if err != nil {
		exitErr(fmt.Errorf("create controller: %w", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- ctrl.Run(ctx) }()

	steps := []layout.WindowMode{
		layout.ModeFullScreen,
		layout.ModeWindowed,
		layout.ModeMusic,
		layout.ModeWindowed,
	}
	for _, mode := range steps {
		ctrl.SetMode(mode)
		waitForMode(ctrl, mode)
		fmt.Printf("Reached %s: %s\n", mode, formatFrame(ctrl))
	}

	if g := ctrl.CurrentGeometry(); g.WindowFrame.IsEmpty() {
		exitErr(errors.New("windowed geometry collapsed during cycle"))
	}

	fmt.Println("\n=== Final Layout ===")
	if err := marshalJSON(ctrl.Report()); err != nil {
		logger.Warnf("failed to print layout report: %v", err)
	}

	fmt.Println("\n=== Metrics ===")
	if err := marshalJSON(collector.Snapshot()); err != nil {
		logger.Warnf("failed to print metrics: %v", err)
	}

	cancel()
	<-done
	fmt.Println("\nSmoke run OK")
}

// waitForMode polls until the transition queue commits the mode. With the
// immediate clock this settles within a few scheduler ticks.
func waitForMode(ctrl *controller.Controller, mode layout.WindowMode) {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if ctrl.CurrentSpec().Mode == mode {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	exitErr(fmt.Errorf("timed out waiting for mode %s", mode))
}

func formatFrame(ctrl *controller.Controller) string {
	g := ctrl.CurrentGeometry()
	return fmt.Sprintf("%.0fx%.0f @ %.0f,%.0f", g.WindowFrame.Width, g.WindowFrame.Height, g.WindowFrame.X, g.WindowFrame.Y)
}

func marshalJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func exitErr(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
