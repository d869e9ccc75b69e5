package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"

	"github.com/viewframe/viewframe/internal/controller"
	"github.com/viewframe/viewframe/internal/geometry"
	"github.com/viewframe/viewframe/internal/layout"
	"github.com/viewframe/viewframe/internal/metrics"
	"github.com/viewframe/viewframe/internal/util"
)

// Server hosts the viewframe control socket and serves requests.
type Server struct {
	ctrl       *controller.Controller
	metrics    *metrics.Collector
	logger     *util.Logger
	reload     func(reason string) error
	socketPath string

	mu       sync.Mutex
	listener net.Listener
}

// NewServer creates a control server. An empty socketPath selects the
// default runtime location.
func NewServer(ctrl *controller.Controller, collector *metrics.Collector, logger *util.Logger, reload func(reason string) error, socketPath string) *Server {
	if socketPath == "" {
		socketPath = DefaultSocketPath()
	}
	return &Server{
		ctrl:       ctrl,
		metrics:    collector,
		logger:     logger,
		reload:     reload,
		socketPath: socketPath,
	}
}

// Serve listens on the control socket until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.prepareSocket(); err != nil {
		return err
	}
	s.logger.Infof("control server listening on %s", s.socketPath)
	defer s.cleanup()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		if s.listener != nil {
			s.listener.Close()
		}
		s.mu.Unlock()
	}()

	for {
		conn, err := s.accept(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Errorf("control accept error: %v", err)
			continue
		}
		go s.handle(conn)
	}
}

func (s *Server) accept(ctx context.Context) (net.Conn, error) {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()
	if listener == nil {
		return nil, context.Canceled
	}
	conn, err := listener.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return conn, nil
}

func (s *Server) prepareSocket() error {
	dir := filepath.Dir(s.socketPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create control dir: %w", err)
	}
	if err := os.Remove(s.socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale socket: %w", err)
	}
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("listen on control socket: %w", err)
	}
	if err := os.Chmod(s.socketPath, 0o600); err != nil {
		listener.Close()
		return fmt.Errorf("chmod control socket: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
	return nil
}

func (s *Server) cleanup() {
	s.mu.Lock()
	listener := s.listener
	s.listener = nil
	s.mu.Unlock()
	if listener != nil {
		listener.Close()
	}
	if err := os.Remove(s.socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warnf("remove control socket: %v", err)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	dec := json.NewDecoder(conn)
	var req Request
	if err := dec.Decode(&req); err != nil {
		s.writeError(conn, fmt.Errorf("decode request: %w", err))
		return
	}
	switch req.Action {
	case ActionLayoutGet:
		s.writeOK(conn, s.ctrl.Report())
	case ActionModeSet:
		s.handleModeSet(conn, req.Params)
	case ActionSidebarToggle:
		s.handleSidebarToggle(conn, req.Params)
	case ActionVideoScale:
		s.handleVideoScale(conn, req.Params)
	case ActionMetricsGet:
		s.writeOK(conn, s.metrics.Snapshot())
	case ActionScreensRefresh:
		s.handleScreensRefresh(conn)
	case ActionReload:
		s.handleReload(conn)
	default:
		s.writeError(conn, fmt.Errorf("unknown action %q", req.Action))
	}
}

func (s *Server) handleModeSet(conn net.Conn, params map[string]any) {
	name, _ := params["name"].(string)
	if name == "" {
		s.writeError(conn, errors.New("missing mode name"))
		return
	}
	mode, ok := layout.ParseWindowMode(name)
	if !ok {
		s.writeError(conn, fmt.Errorf("unknown mode %q", name))
		return
	}
	tr := s.ctrl.SetMode(mode)
	s.writeOK(conn, transitionResult(tr.OutputSpec.Mode.String(), len(tr.Tasks), tr.NoOp()))
}

func (s *Server) handleSidebarToggle(conn net.Conn, params map[string]any) {
	name, _ := params["location"].(string)
	var loc layout.SidebarLocation
	switch name {
	case "leading":
		loc = layout.SidebarLeading
	case "trailing":
		loc = layout.SidebarTrailing
	default:
		s.writeError(conn, fmt.Errorf("unknown sidebar location %q", name))
		return
	}
	tr := s.ctrl.ToggleSidebar(loc)
	s.writeOK(conn, transitionResult(tr.OutputSpec.Mode.String(), len(tr.Tasks), tr.NoOp()))
}

func (s *Server) handleVideoScale(conn net.Conn, params map[string]any) {
	if steps, ok := params["steps"].(float64); ok {
		g := s.ctrl.ScaleVideoByIncrement(int(steps))
		video := g.VideoSize()
		s.writeOK(conn, VideoScaleResult{Width: video.Width, Height: video.Height})
		return
	}
	width, _ := params["width"].(float64)
	height, _ := params["height"].(float64)
	if width <= 0 || height <= 0 {
		s.writeError(conn, errors.New("width and height (or steps) are required"))
		return
	}
	g := s.ctrl.ScaleVideo(geometry.Size{Width: width, Height: height})
	video := g.VideoSize()
	s.writeOK(conn, VideoScaleResult{Width: video.Width, Height: video.Height})
}

func (s *Server) handleScreensRefresh(conn net.Conn) {
	if err := s.ctrl.RefreshScreens(); err != nil {
		s.writeError(conn, err)
		return
	}
	s.writeOK(conn, nil)
}

func (s *Server) handleReload(conn net.Conn) {
	if s.reload == nil {
		s.writeError(conn, errors.New("reload not supported"))
		return
	}
	if err := s.reload("control request"); err != nil {
		s.writeError(conn, err)
		return
	}
	s.writeOK(conn, nil)
}

func transitionResult(mode string, tasks int, noop bool) TransitionResult {
	return TransitionResult{Mode: mode, Tasks: tasks, NoOp: noop}
}

func (s *Server) writeOK(conn net.Conn, data any) {
	resp := Response{Status: StatusOK}
	if data != nil {
		resp.Data = data
	}
	_ = json.NewEncoder(conn).Encode(resp)
}

func (s *Server) writeError(conn net.Conn, err error) {
	resp := Response{Status: StatusError}
	if err != nil {
		resp.Error = err.Error()
	}
	_ = json.NewEncoder(conn).Encode(resp)
}
