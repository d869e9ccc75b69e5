package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/viewframe/viewframe/internal/control"
	"github.com/viewframe/viewframe/internal/controller"
	"github.com/viewframe/viewframe/internal/metrics"
)

const (
	// defaultTimeout is used when the caller does not provide a context deadline.
	defaultTimeout = 3 * time.Second
)

// Client talks to the running viewframe daemon over its control socket.
type Client struct {
	socketPath string
}

type (
	// LayoutReport mirrors the daemon's current-layout payload.
	LayoutReport = controller.Report
	// TransitionResult summarizes a queued layout transition.
	TransitionResult = control.TransitionResult
	// VideoScaleResult reports the video size reached after scaling.
	VideoScaleResult = control.VideoScaleResult
	// MetricsSnapshot mirrors the daemon's metrics payload.
	MetricsSnapshot = metrics.Snapshot
)

// New creates a client that connects to the provided socket path. When path
// is empty, the default runtime path is used.
func New(path string) *Client {
	if path == "" {
		path = control.DefaultSocketPath()
	}
	return &Client{socketPath: path}
}

// Layout retrieves the daemon's current layout report.
func (c *Client) Layout(ctx context.Context) (LayoutReport, error) {
	var report LayoutReport
	if err := c.do(ctx, control.Request{Action: control.ActionLayoutGet}, &report); err != nil {
		return LayoutReport{}, err
	}
	return report, nil
}

// SetMode asks the daemon to transition into the named window mode.
func (c *Client) SetMode(ctx context.Context, name string) (TransitionResult, error) {
	if name == "" {
		return TransitionResult{}, errors.New("mode name cannot be empty")
	}
	var result TransitionResult
	req := control.Request{Action: control.ActionModeSet, Params: map[string]any{"name": name}}
	if err := c.do(ctx, req, &result); err != nil {
		return TransitionResult{}, err
	}
	return result, nil
}

// ToggleSidebar flips the named sidebar ("leading" or "trailing").
func (c *Client) ToggleSidebar(ctx context.Context, location string) (TransitionResult, error) {
	if location == "" {
		return TransitionResult{}, errors.New("sidebar location cannot be empty")
	}
	var result TransitionResult
	req := control.Request{Action: control.ActionSidebarToggle, Params: map[string]any{"location": location}}
	if err := c.do(ctx, req, &result); err != nil {
		return TransitionResult{}, err
	}
	return result, nil
}

// ScaleVideo asks the daemon to resize the video to the given size.
func (c *Client) ScaleVideo(ctx context.Context, width, height float64) (VideoScaleResult, error) {
	if width <= 0 || height <= 0 {
		return VideoScaleResult{}, errors.New("width and height must be positive")
	}
	var result VideoScaleResult
	req := control.Request{Action: control.ActionVideoScale, Params: map[string]any{"width": width, "height": height}}
	if err := c.do(ctx, req, &result); err != nil {
		return VideoScaleResult{}, err
	}
	return result, nil
}

// ScaleVideoBy grows or shrinks the video by whole scale steps.
func (c *Client) ScaleVideoBy(ctx context.Context, steps int) (VideoScaleResult, error) {
	var result VideoScaleResult
	req := control.Request{Action: control.ActionVideoScale, Params: map[string]any{"steps": steps}}
	if err := c.do(ctx, req, &result); err != nil {
		return VideoScaleResult{}, err
	}
	return result, nil
}

// Metrics retrieves the daemon's transition counters.
func (c *Client) Metrics(ctx context.Context) (MetricsSnapshot, error) {
	var snapshot MetricsSnapshot
	if err := c.do(ctx, control.Request{Action: control.ActionMetricsGet}, &snapshot); err != nil {
		return MetricsSnapshot{}, err
	}
	return snapshot, nil
}

// RefreshScreens asks the daemon to re-enumerate displays.
func (c *Client) RefreshScreens(ctx context.Context) error {
	return c.do(ctx, control.Request{Action: control.ActionScreensRefresh}, nil)
}

// Reload asks the daemon to reload its preferences file.
func (c *Client) Reload(ctx context.Context) error {
	return c.do(ctx, control.Request{Action: control.ActionReload}, nil)
}

func (c *Client) do(ctx context.Context, req control.Request, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("dial control socket: %w", err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	var resp control.Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.Status != control.StatusOK {
		if resp.Error == "" {
			resp.Error = "unknown control error"
		}
		return errors.New(resp.Error)
	}
	if out == nil || resp.Data == nil {
		return nil
	}
	data, err := json.Marshal(resp.Data)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
