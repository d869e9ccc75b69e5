package tui

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/viewframe/viewframe/internal/control/client"
	"github.com/viewframe/viewframe/internal/geometry"
)

const defaultRefresh = 500 * time.Millisecond

// Renderer periodically polls the daemon and renders a textual dashboard.
type Renderer struct {
	Client  *client.Client
	Writer  io.Writer
	Refresh time.Duration
}

// New returns a renderer configured with sensible defaults.
func New(cli *client.Client, w io.Writer) *Renderer {
	return &Renderer{Client: cli, Writer: w, Refresh: defaultRefresh}
}

// Run starts the render loop until the context is cancelled.
func (r *Renderer) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if r.Writer == nil {
		r.Writer = os.Stdout
	}
	if r.Client == nil {
		return fmt.Errorf("tui renderer requires a control client")
	}

	refresh := r.Refresh
	if refresh <= 0 {
		refresh = defaultRefresh
	}

	ticker := time.NewTicker(refresh)
	defer ticker.Stop()

	fmt.Fprint(r.Writer, "\033[?25l")
	defer fmt.Fprint(r.Writer, "\033[?25h")

	r.render(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.render(ctx)
		}
	}
}

func (r *Renderer) render(ctx context.Context) {
	var buf bytes.Buffer
	buf.WriteString("\033[H\033[2J")
	buf.WriteString("viewframe layout — Ctrl+C to exit\n")
	buf.WriteString(time.Now().Format(time.RFC1123))
	buf.WriteString("\n\n")

	report, err := r.Client.Layout(ctx)
	if err != nil {
		buf.WriteString(fmt.Sprintf("error: %v\n", err))
		fmt.Fprint(r.Writer, buf.String())
		return
	}
	buf.WriteString(renderLayout(report))

	snapshot, err := r.Client.Metrics(ctx)
	if err != nil {
		buf.WriteString(fmt.Sprintf("metrics error: %v\n", err))
	} else {
		buf.WriteString(renderMetrics(snapshot))
	}
	fmt.Fprint(r.Writer, buf.String())
}

func renderLayout(report client.LayoutReport) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Mode: %s", report.Mode))
	if report.LegacyStyle {
		b.WriteString(" (legacy style)")
	}
	b.WriteByte('\n')
	b.WriteString(fmt.Sprintf("Screen: %s\n", orDash(report.Screen)))
	b.WriteString(fmt.Sprintf("Window: %s\n", formatRect(report.WindowFrame)))
	b.WriteString(fmt.Sprintf("Video: %s  Viewport: %s  Aspect: %s\n",
		formatSize(report.VideoSize), formatSize(report.Viewport), formatAspect(report.VideoAspect)))

	osc := "off"
	if report.OSCEnabled {
		osc = report.OSCPosition
	}
	chrome := "hidden"
	if report.ChromeShown {
		chrome = "shown"
	}
	b.WriteString(fmt.Sprintf("Bars: top %.0f, bottom %.0f  OSC: %s  Chrome: %s\n",
		report.TopBarHeight, report.BottomBarHeight, osc, chrome))

	b.WriteString("Sidebars:\n")
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Side\tPlacement\tVisibility\tWidth")
	fmt.Fprintf(tw, "leading\t%s\t%s\t%.0f\n", report.Leading.Placement, report.Leading.Visibility, report.Leading.Width)
	fmt.Fprintf(tw, "trailing\t%s\t%s\t%.0f\n", report.Trailing.Placement, report.Trailing.Visibility, report.Trailing.Width)
	tw.Flush()

	if report.Mode == "music" {
		playlist := "closed"
		if report.PlaylistVisible {
			playlist = fmt.Sprintf("open (%.0f px)", report.PlaylistHeight)
		}
		b.WriteString(fmt.Sprintf("Playlist: %s\n", playlist))
	}
	b.WriteByte('\n')
	return b.String()
}

func renderMetrics(snapshot client.MetricsSnapshot) string {
	var b strings.Builder
	b.WriteString("Transitions:\n")
	if !snapshot.Enabled {
		b.WriteString("  (metrics disabled)\n\n")
		return b.String()
	}
	if len(snapshot.Modes) == 0 {
		b.WriteString("  (none yet)\n\n")
		return b.String()
	}
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Mode\tBuilt\tCompleted\tClamps\tLast")
	for _, mode := range snapshot.Modes {
		last := "-"
		if !mode.LastCompleted.IsZero() {
			last = mode.LastCompleted.Format("15:04:05")
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", mode.Mode, mode.TransitionsBuilt, mode.TransitionsCompleted, mode.ClampsApplied, last)
	}
	tw.Flush()
	totals := snapshot.Totals
	b.WriteString(fmt.Sprintf("Stale skips: %d  Screen fallbacks: %d  Deferred recomputes: %d\n",
		totals.StaleTasksSkipped, totals.ScreenFallbacks, totals.DeferredRecomputes))
	b.WriteByte('\n')
	return b.String()
}

func formatRect(rect geometry.Rect) string {
	return fmt.Sprintf("%.0fx%.0f @ %.0f,%.0f", rect.Width, rect.Height, rect.X, rect.Y)
}

func formatSize(size geometry.Size) string {
	return fmt.Sprintf("%.0fx%.0f", size.Width, size.Height)
}

func formatAspect(aspect float64) string {
	if aspect <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%.3f", aspect)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
