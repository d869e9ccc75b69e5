package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/viewframe/viewframe/internal/control/client"
	"github.com/viewframe/viewframe/internal/settings"
	"github.com/viewframe/viewframe/internal/ui/tui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(argv []string) error {
	fs := flag.NewFlagSet("vfctl", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	socket := fs.String("socket", "", "path to viewframe control socket")
	timeout := fs.Duration("timeout", 3*time.Second, "control request timeout")
	asJSON := fs.Bool("json", false, "print raw JSON payloads")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [flags] <command> [args]\n", fs.Name())
		fmt.Fprintln(fs.Output())
		fmt.Fprintln(fs.Output(), "Commands:")
		fmt.Fprintln(fs.Output(), "  layout\t\t\tshow the current layout")
		fmt.Fprintln(fs.Output(), "  mode set <name>\t\tswitch window mode (windowed|fullscreen|music)")
		fmt.Fprintln(fs.Output(), "  sidebar toggle <side>\ttoggle a sidebar (leading|trailing)")
		fmt.Fprintln(fs.Output(), "  video scale <w> <h>\t\tresize the video")
		fmt.Fprintln(fs.Output(), "  video step <n>\t\tscale the video by n steps")
		fmt.Fprintln(fs.Output(), "  metrics\t\t\tshow transition counters")
		fmt.Fprintln(fs.Output(), "  screens refresh\t\tre-enumerate displays")
		fmt.Fprintln(fs.Output(), "  reload\t\t\ttrigger a live preferences reload")
		fmt.Fprintln(fs.Output(), "  check --config <path>\tvalidate a preferences file")
		fmt.Fprintln(fs.Output(), "  tui\t\t\t\tlaunch the interactive dashboard")
		fmt.Fprintln(fs.Output())
		fmt.Fprintln(fs.Output(), "Flags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	args := fs.Args()
	if len(args) == 0 {
		fs.Usage()
		return fmt.Errorf("missing subcommand")
	}

	if args[0] == "check" {
		return runCheck(args[1:], os.Stdout, os.Stderr)
	}

	cli := client.New(*socket)

	ctx := context.Background()
	if *timeout > 0 && args[0] != "tui" {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	switch args[0] {
	case "layout":
		return runLayout(ctx, cli, *asJSON)
	case "mode":
		return runMode(ctx, cli, args[1:])
	case "sidebar":
		return runSidebar(ctx, cli, args[1:])
	case "video":
		return runVideo(ctx, cli, args[1:])
	case "metrics":
		return runMetrics(ctx, cli, *asJSON)
	case "screens":
		return runScreens(ctx, cli, args[1:])
	case "reload":
		return runReload(ctx, cli)
	case "tui":
		return runTUI(cli)
	default:
		fs.Usage()
		return fmt.Errorf("unknown subcommand %q", args[0])
	}
}

func runCheck(args []string, stdout io.Writer, stderr io.Writer) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	prefsPath := fs.String("config", "", "path to preferences file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if *prefsPath == "" {
		fs.Usage()
		return fmt.Errorf("check requires --config <path>")
	}
	if _, err := settings.Load(*prefsPath); err != nil {
		fmt.Fprintf(stderr, "Preferences invalid: %v\n", err)
		return fmt.Errorf("preferences validation failed")
	}
	fmt.Fprintln(stdout, "Preferences OK")
	return nil
}

func runLayout(ctx context.Context, cli *client.Client, asJSON bool) error {
	report, err := cli.Layout(ctx)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(report)
	}
	fmt.Printf("Mode: %s\n", report.Mode)
	fmt.Printf("Screen: %s\n", report.Screen)
	fmt.Printf("Window: %.0fx%.0f @ %.0f,%.0f\n",
		report.WindowFrame.Width, report.WindowFrame.Height, report.WindowFrame.X, report.WindowFrame.Y)
	fmt.Printf("Video: %.0fx%.0f\n", report.VideoSize.Width, report.VideoSize.Height)
	fmt.Printf("Sidebars: leading %s (%.0f), trailing %s (%.0f)\n",
		report.Leading.Visibility, report.Leading.Width,
		report.Trailing.Visibility, report.Trailing.Width)
	return nil
}

func runMode(ctx context.Context, cli *client.Client, args []string) error {
	if len(args) < 2 || args[0] != "set" {
		return fmt.Errorf("mode requires: set <windowed|fullscreen|music>")
	}
	result, err := cli.SetMode(ctx, args[1])
	if err != nil {
		return err
	}
	if result.NoOp {
		fmt.Printf("Already in %s\n", result.Mode)
		return nil
	}
	fmt.Printf("Transitioning to %s (%d tasks)\n", result.Mode, result.Tasks)
	return nil
}

func runSidebar(ctx context.Context, cli *client.Client, args []string) error {
	if len(args) < 2 || args[0] != "toggle" {
		return fmt.Errorf("sidebar requires: toggle <leading|trailing>")
	}
	result, err := cli.ToggleSidebar(ctx, args[1])
	if err != nil {
		return err
	}
	fmt.Printf("Toggled %s sidebar (%d tasks)\n", args[1], result.Tasks)
	return nil
}

func runVideo(ctx context.Context, cli *client.Client, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("video requires a subcommand (scale|step)")
	}
	switch args[0] {
	case "scale":
		if len(args) < 3 {
			return fmt.Errorf("video scale requires width and height")
		}
		width, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid width %q", args[1])
		}
		height, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid height %q", args[2])
		}
		result, err := cli.ScaleVideo(ctx, width, height)
		if err != nil {
			return err
		}
		fmt.Printf("Video now %.0fx%.0f\n", result.Width, result.Height)
		return nil
	case "step":
		if len(args) < 2 {
			return fmt.Errorf("video step requires a step count")
		}
		steps, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid step count %q", args[1])
		}
		result, err := cli.ScaleVideoBy(ctx, steps)
		if err != nil {
			return err
		}
		fmt.Printf("Video now %.0fx%.0f\n", result.Width, result.Height)
		return nil
	default:
		return fmt.Errorf("unknown video subcommand %q", args[0])
	}
}

func runMetrics(ctx context.Context, cli *client.Client, asJSON bool) error {
	snapshot, err := cli.Metrics(ctx)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(snapshot)
	}
	if !snapshot.Enabled {
		fmt.Println("Metrics disabled")
		return nil
	}
	for _, mode := range snapshot.Modes {
		fmt.Printf("%s: built %d, completed %d, clamps %d\n",
			mode.Mode, mode.TransitionsBuilt, mode.TransitionsCompleted, mode.ClampsApplied)
	}
	fmt.Printf("stale skips %d, screen fallbacks %d, deferred recomputes %d\n",
		snapshot.Totals.StaleTasksSkipped, snapshot.Totals.ScreenFallbacks, snapshot.Totals.DeferredRecomputes)
	return nil
}

func runScreens(ctx context.Context, cli *client.Client, args []string) error {
	if len(args) == 0 || args[0] != "refresh" {
		return fmt.Errorf("screens requires: refresh")
	}
	if err := cli.RefreshScreens(ctx); err != nil {
		return err
	}
	fmt.Println("Screens refreshed")
	return nil
}

func runReload(ctx context.Context, cli *client.Client) error {
	if err := cli.Reload(ctx); err != nil {
		return err
	}
	fmt.Println("Reload requested")
	return nil
}

func runTUI(cli *client.Client) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	renderer := tui.New(cli, os.Stdout)
	if err := renderer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
