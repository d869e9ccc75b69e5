package client

import (
	"context"
	"encoding/json"
	"net"
	"path/filepath"
	"testing"

	"github.com/viewframe/viewframe/internal/control"
	"github.com/viewframe/viewframe/internal/geometry"
	"github.com/viewframe/viewframe/internal/metrics"
)

func startTestServer(t *testing.T, handler func(net.Conn)) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "socket")
	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("listen on unix socket: %v", err)
	}
	go func() {
		defer ln.Close()
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		handler(conn)
	}()
	return path
}

func TestLayoutSuccess(t *testing.T) {
	path := startTestServer(t, func(conn net.Conn) {
		defer conn.Close()
		var req control.Request
		if err := json.NewDecoder(conn).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		if req.Action != control.ActionLayoutGet {
			t.Errorf("unexpected action %q", req.Action)
			return
		}
		resp := control.Response{Status: control.StatusOK, Data: LayoutReport{
			Mode:        "windowed",
			Screen:      "main",
			WindowFrame: geometry.Rect{X: 100, Y: 100, Width: 960, Height: 540},
			VideoSize:   geometry.Size{Width: 960, Height: 540},
		}}
		if err := json.NewEncoder(conn).Encode(resp); err != nil {
			t.Errorf("encode response: %v", err)
		}
	})
	report, err := New(path).Layout(context.Background())
	if err != nil {
		t.Fatalf("Layout returned error: %v", err)
	}
	if report.Mode != "windowed" || report.Screen != "main" {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.WindowFrame.Width != 960 {
		t.Fatalf("unexpected frame %+v", report.WindowFrame)
	}
}

func TestSetModeValidatesName(t *testing.T) {
	if _, err := New("/nonexistent").SetMode(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty mode name")
	}
}

func TestSetModeSuccess(t *testing.T) {
	path := startTestServer(t, func(conn net.Conn) {
		defer conn.Close()
		var req control.Request
		if err := json.NewDecoder(conn).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		if req.Action != control.ActionModeSet || req.Params["name"] != "music" {
			t.Errorf("unexpected request %+v", req)
			return
		}
		resp := control.Response{Status: control.StatusOK, Data: TransitionResult{Mode: "music", Tasks: 3}}
		_ = json.NewEncoder(conn).Encode(resp)
	})
	result, err := New(path).SetMode(context.Background(), "music")
	if err != nil {
		t.Fatalf("SetMode returned error: %v", err)
	}
	if result.Mode != "music" || result.Tasks != 3 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestSetModeServerError(t *testing.T) {
	path := startTestServer(t, func(conn net.Conn) {
		defer conn.Close()
		var req control.Request
		if err := json.NewDecoder(conn).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		resp := control.Response{Status: control.StatusError, Error: "unknown mode"}
		_ = json.NewEncoder(conn).Encode(resp)
	})
	if _, err := New(path).SetMode(context.Background(), "sideways"); err == nil {
		t.Fatal("expected error from SetMode")
	}
}

func TestScaleVideoValidatesSize(t *testing.T) {
	if _, err := New("/nonexistent").ScaleVideo(context.Background(), 0, 100); err == nil {
		t.Fatal("expected error for zero width")
	}
}

func TestScaleVideoBySendsSteps(t *testing.T) {
	path := startTestServer(t, func(conn net.Conn) {
		defer conn.Close()
		var req control.Request
		if err := json.NewDecoder(conn).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		if req.Action != control.ActionVideoScale {
			t.Errorf("unexpected action %q", req.Action)
			return
		}
		// JSON numbers arrive as float64.
		if steps, _ := req.Params["steps"].(float64); steps != 2 {
			t.Errorf("unexpected steps %v", req.Params["steps"])
			return
		}
		resp := control.Response{Status: control.StatusOK, Data: VideoScaleResult{Width: 1500, Height: 843.75}}
		_ = json.NewEncoder(conn).Encode(resp)
	})
	result, err := New(path).ScaleVideoBy(context.Background(), 2)
	if err != nil {
		t.Fatalf("ScaleVideoBy returned error: %v", err)
	}
	if result.Width != 1500 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestMetricsSuccess(t *testing.T) {
	path := startTestServer(t, func(conn net.Conn) {
		defer conn.Close()
		var req control.Request
		if err := json.NewDecoder(conn).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		if req.Action != control.ActionMetricsGet {
			t.Errorf("unexpected action %q", req.Action)
			return
		}
		resp := control.Response{Status: control.StatusOK, Data: metrics.Snapshot{
			Enabled: true,
			Totals:  metrics.Totals{TransitionsBuilt: 2, TransitionsCompleted: 1},
			Modes:   []metrics.ModeMetrics{{Mode: "windowed", TransitionsBuilt: 2}},
		}}
		if err := json.NewEncoder(conn).Encode(resp); err != nil {
			t.Errorf("encode response: %v", err)
		}
	})
	snapshot, err := New(path).Metrics(context.Background())
	if err != nil {
		t.Fatalf("Metrics returned error: %v", err)
	}
	if !snapshot.Enabled || snapshot.Totals.TransitionsBuilt != 2 {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}
	if len(snapshot.Modes) != 1 || snapshot.Modes[0].Mode != "windowed" {
		t.Fatalf("unexpected modes %+v", snapshot.Modes)
	}
}

func TestReloadServerError(t *testing.T) {
	path := startTestServer(t, func(conn net.Conn) {
		defer conn.Close()
		var req control.Request
		if err := json.NewDecoder(conn).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		resp := control.Response{Status: control.StatusError, Error: "reload failed"}
		_ = json.NewEncoder(conn).Encode(resp)
	})
	if err := New(path).Reload(context.Background()); err == nil {
		t.Fatal("expected error from Reload")
	}
}
