package controller

import (
	"context"
	"fmt"
	"sync"

	"github.com/viewframe/viewframe/internal/geometry"
	"github.com/viewframe/viewframe/internal/layout"
	"github.com/viewframe/viewframe/internal/metrics"
	"github.com/viewframe/viewframe/internal/playback"
	"github.com/viewframe/viewframe/internal/screens"
	"github.com/viewframe/viewframe/internal/settings"
	"github.com/viewframe/viewframe/internal/store"
	"github.com/viewframe/viewframe/internal/transition"
	"github.com/viewframe/viewframe/internal/util"
)

// VideoScaleStep is the multiplier applied per increment step.
const VideoScaleStep = 1.25

// Options configures a Controller.
type Options struct {
	Logger    *util.Logger
	Metrics   *metrics.Collector
	Binding   playback.Binding
	Provider  screens.Provider
	Prefs     *settings.Preferences
	StorePath string
	Clock     transition.Clock
}

// Controller owns the single current layout: spec, state, and the cached
// geometry per window mode. All mutation funnels through its mutex; the
// geometry solvers stay pure. It also implements transition.Applier, so
// the serial queue applies task effects back onto it.
type Controller struct {
	logger   *util.Logger
	metrics  *metrics.Collector
	binding  playback.Binding
	provider screens.Provider
	queue    *transition.Queue

	storePath string

	mu    sync.Mutex
	prefs *settings.Preferences
	spec  layout.Spec
	state layout.State
	// requested is the newest requested spec. It runs ahead of the
	// committed spec while transitions are still queued, so rapid
	// back-to-back requests diff against the right predecessor.
	requested   layout.Spec
	geometry    layout.WindowGeometry
	windowed    layout.WindowGeometry
	music       layout.MusicModeGeometry
	screenList  []screens.Screen
	negotiator  layout.ResizeNegotiator
	applied     bool
	chromeShown bool
	decorated   bool
}

// New creates a controller with the preference-derived spec as current.
func New(opts Options) (*Controller, error) {
	if opts.Logger == nil {
		return nil, fmt.Errorf("controller requires a logger")
	}
	if opts.Binding == nil {
		return nil, fmt.Errorf("controller requires a playback binding")
	}
	if opts.Provider == nil {
		opts.Provider = screens.DefaultStatic()
	}
	if opts.Prefs == nil {
		opts.Prefs = settings.Default()
	}
	list, err := opts.Provider.Screens()
	if err != nil {
		return nil, fmt.Errorf("enumerate screens: %w", err)
	}

	c := &Controller{
		logger:      opts.Logger,
		metrics:     opts.Metrics,
		binding:     opts.Binding,
		provider:    opts.Provider,
		storePath:   opts.StorePath,
		prefs:       opts.Prefs,
		screenList:  list,
		chromeShown: true,
		decorated:   true,
	}
	queueOpts := []transition.QueueOption{transition.WithStaleHook(func(transition.Task) {
		c.metrics.RecordStaleTaskSkipped()
	})}
	if opts.Clock != nil {
		queueOpts = append(queueOpts, transition.WithClock(opts.Clock))
	}
	c.queue = transition.NewQueue(opts.Logger, queueOpts...)

	c.spec = opts.Prefs.BuildSpec()
	c.requested = c.spec
	c.state = layout.BuildState(c.spec)
	screen := c.resolveScreenLocked(opts.Prefs.Screens.Preferred)
	frame := geometry.Rect{Width: 960, Height: 540}.CenteredIn(screen.Visible)
	c.geometry = layout.BuildWindowGeometry(frame, screen.ID, c.state, 0)
	c.windowed = c.geometry
	return c, nil
}

// Restore applies a persisted session. A stored spec whose
// preference-derived fields disagree with the current preferences is
// detected and answered with a corrective transition once Run starts.
func (c *Controller) Restore(session *store.Session) {
	if session == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fresh := c.prefs.BuildSpec()
	if session.Spec != nil {
		stored := session.Spec.Spec()
		// Rebuilding the preference-derived fields under the stored mode
		// keeps the comparison fair: music-mode normalization forces the
		// same fields on both sides.
		merged := mergeWindowState(fresh, stored)
		if !merged.Equal(stored) {
			c.logger.Tracef("persisted-state mismatch {\"stored\":%q,\"fresh\":%q}",
				session.Spec.Mode, fresh.Mode.String())
			// Keep the stored per-window state but let preferences win;
			// the initial transition in Run applies the corrected layout.
			stored = merged
		}
		c.spec = stored
		c.requested = c.spec
		c.state = layout.BuildState(c.spec)
	}
	if session.Windowed != nil {
		windowedState := c.state
		if c.spec.Mode != layout.ModeWindowed {
			windowedState = layout.BuildState(c.spec.WithMode(layout.ModeWindowed))
		}
		c.windowed = session.Windowed.Geometry(windowedState)
	}
	if session.Music != nil {
		c.music = session.Music.Geometry()
	}
	switch c.spec.Mode {
	case layout.ModeMusic:
		if !c.music.WindowFrame.IsEmpty() {
			c.geometry = c.music.ToWindowGeometry()
		}
	default:
		c.geometry = c.windowed
	}
}

// mergeWindowState keeps the per-window fields of stored on top of the
// preference-derived spec.
func mergeWindowState(fresh, stored layout.Spec) layout.Spec {
	merged := fresh.WithMode(stored.Mode)
	merged = merged.WithSidebarVisibility(layout.SidebarLeading, stored.Leading.Visibility)
	merged = merged.WithSidebarVisibility(layout.SidebarTrailing, stored.Trailing.Visibility)
	merged = merged.WithSidebarWidth(layout.SidebarLeading, stored.Leading.Width)
	merged = merged.WithSidebarWidth(layout.SidebarTrailing, stored.Trailing.Width)
	merged.Leading.LastTab = stored.Leading.LastTab
	merged.Trailing.LastTab = stored.Trailing.LastTab
	return layout.NewSpec(merged)
}

// Run applies the initial layout and processes playback events until the
// context is canceled. Events from the playback engine's thread are
// funneled here so a single goroutine owns all layout mutation.
func (c *Controller) Run(ctx context.Context) error {
	queueErr := make(chan error, 1)
	go func() { queueErr <- c.queue.Run(ctx, c) }()

	c.RequestTransition(c.pendingSpec())

	events := c.binding.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-queueErr:
			return err
		case ev, ok := <-events:
			if !ok {
				return fmt.Errorf("playback event stream closed")
			}
			c.HandleEvent(ev)
		}
	}
}

// HandleEvent reacts to a playback notification.
func (c *Controller) HandleEvent(ev playback.Event) {
	switch ev.Kind {
	case playback.EventVideoReconfigured:
		if ev.Aspect <= 0 {
			c.logger.Tracef("deferred recompute {\"reason\":\"aspect unknown\"}")
			c.metrics.RecordDeferredRecompute()
			return
		}
		c.logger.Tracef("video reconfigured {\"aspect\":%.4f}", ev.Aspect)
		c.RequestTransition(c.pendingSpec())
	case playback.EventPlaybackStopped:
		c.logger.Debugf("playback stopped; keeping last geometry")
	}
}

// CurrentSpec returns the current layout spec.
func (c *Controller) CurrentSpec() layout.Spec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.spec
}

// pendingSpec returns the newest requested spec, which may be ahead of
// the committed one while queued transitions are still applying. New
// targets derive from it so a mid-flight request does not undo the one
// before it.
func (c *Controller) pendingSpec() layout.Spec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requested
}

// CurrentState returns the current derived layout state.
func (c *Controller) CurrentState() layout.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CurrentGeometry returns the geometry of the current mode.
func (c *Controller) CurrentGeometry() layout.WindowGeometry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.geometry
}

// MusicGeometry returns the cached music-mode geometry.
func (c *Controller) MusicGeometry() layout.MusicModeGeometry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.music
}

// RequestTransition builds and enqueues a transition to the target spec.
// The returned transition is the computed plan; its tasks are already
// queued.
func (c *Controller) RequestTransition(target layout.Spec) transition.Transition {
	c.mu.Lock()
	aspect, known := c.binding.VideoAspect()
	if !known {
		aspect = 0
	}
	screen := c.resolveScreenLocked(c.geometry.ScreenID)
	fromSpec := c.requested
	fromState := c.state
	if !fromSpec.Equal(c.spec) {
		fromState = layout.BuildState(fromSpec)
	}
	req := transition.Request{
		CurrentSpec:  fromSpec,
		CurrentState: fromState,
		Current:      c.geometry,
		Windowed:     c.windowed,
		Music:        c.music,
		Target:       target,
		Screen:       screen,
		VideoAspect:  aspect,
		Initial:      !c.applied,
	}
	c.applied = true
	c.requested = layout.NewSpec(target)
	c.mu.Unlock()

	tr := transition.Build(req)
	c.metrics.RecordTransitionBuilt(tr.OutputSpec.Mode.String())
	c.logger.Tracef("transition requested {\"from\":%q,\"to\":%q,\"tasks\":%d,\"noop\":%v}",
		req.CurrentSpec.Mode.String(), tr.OutputSpec.Mode.String(), len(tr.Tasks), tr.NoOp())

	outSpec := tr.OutputSpec
	outMusic := tr.OutputMusic
	outAspect := tr.OutputGeometry.VideoAspect
	c.queue.Submit(&tr, func(stale bool) {
		if stale {
			return
		}
		c.mu.Lock()
		if outSpec.Mode == layout.ModeMusic {
			c.music = outMusic
		}
		// Frame and bar effects have already landed; the aspect rides
		// along with completion so later resizes negotiate against it.
		g := c.geometry
		g.VideoAspect = outAspect
		c.setGeometryLocked(g)
		c.mu.Unlock()
		c.metrics.RecordTransitionCompleted(outSpec.Mode.String())
		c.logger.Tracef("transition completed {\"mode\":%q}", outSpec.Mode.String())
		c.persist()
	})
	return tr
}

// ResizeWindow negotiates a native resize callback. Live drags skip the
// screen constraint; the frame is reconciled when the drag ends.
func (c *Controller) ResizeWindow(requested geometry.Size, live bool) layout.WindowGeometry {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, known := c.binding.VideoAspect()
	locked := known && c.spec.Mode != layout.ModeMusic
	screen := c.resolveScreenLocked(c.geometry.ScreenID)
	g := c.negotiator.Resize(c.geometry, requested, live, locked, screen.Visible)
	c.setGeometryLocked(g)
	return g
}

// EndLiveResize finishes a drag gesture and persists the final frame.
func (c *Controller) EndLiveResize() {
	c.mu.Lock()
	c.negotiator.EndLiveResize()
	screen := c.resolveScreenLocked(c.geometry.ScreenID)
	g := c.geometry.Refit(layout.FitKeepInside, screen.Visible)
	c.setGeometryLocked(g)
	c.mu.Unlock()
	c.persist()
}

// ScaleVideo resizes the window so the video occupies the desired size,
// clamped to the current screen.
func (c *Controller) ScaleVideo(desired geometry.Size) layout.WindowGeometry {
	return c.mutateGeometry(desired, func(g layout.WindowGeometry, screen screens.Screen) layout.WindowGeometry {
		return g.ScaleVideo(desired, layout.FitKeepInside, true, screen.Visible)
	})
}

// ResizeViewport resizes the window so the viewport (video plus inside
// bars) occupies the desired size.
func (c *Controller) ResizeViewport(desired geometry.Size) layout.WindowGeometry {
	return c.mutateGeometry(desired, func(g layout.WindowGeometry, screen screens.Screen) layout.WindowGeometry {
		return g.ScaleViewport(desired, layout.FitKeepInside, screen.Visible)
	})
}

// ScaleVideoByIncrement grows (positive steps) or shrinks (negative
// steps) the video by the scale step per increment.
func (c *Controller) ScaleVideoByIncrement(steps int) layout.WindowGeometry {
	factor := 1.0
	for i := 0; i < steps; i++ {
		factor *= VideoScaleStep
	}
	for i := 0; i > steps; i-- {
		factor /= VideoScaleStep
	}
	video := c.CurrentGeometry().VideoSize()
	desired := geometry.Size{Width: video.Width * factor, Height: video.Height * factor}
	return c.mutateGeometry(desired, func(g layout.WindowGeometry, screen screens.Screen) layout.WindowGeometry {
		return g.ScaleVideo(desired, layout.FitKeepInside, true, screen.Visible)
	})
}

func (c *Controller) mutateGeometry(desired geometry.Size, fn func(layout.WindowGeometry, screens.Screen) layout.WindowGeometry) layout.WindowGeometry {
	c.mu.Lock()
	if c.spec.Mode == layout.ModeMusic {
		g := c.geometry
		c.mu.Unlock()
		// Music mode scales through ScaleMusicVideo's bounded solver.
		c.logger.Debugf("generic video scaling ignored in music mode")
		return g
	}
	screen := c.resolveScreenLocked(c.geometry.ScreenID)
	after := fn(c.geometry, screen)
	mode := c.spec.Mode.String()
	c.setGeometryLocked(after)
	c.mu.Unlock()

	got := after.VideoSize()
	if desired.Width > 0 && (got.Width < desired.Width-layout.AspectEpsilon || got.Height < desired.Height-layout.AspectEpsilon) {
		c.metrics.RecordClamp(mode)
		c.logger.Tracef("clamp applied {\"mode\":%q,\"requested\":[%v,%v],\"got\":[%v,%v]}",
			mode, desired.Width, desired.Height, got.Width, got.Height)
	}
	c.binding.SetVideoSize(got.Rounded())
	c.persist()
	return after
}

// ScaleMusicVideo scales the music-mode window width, edge-anchored.
func (c *Controller) ScaleMusicVideo(desired geometry.Size) layout.MusicModeGeometry {
	c.mu.Lock()
	screen := c.resolveScreenLocked(c.music.ScreenID)
	c.music = c.music.ScaleVideo(desired, screen.Visible)
	if c.spec.Mode == layout.ModeMusic {
		c.geometry = c.music.ToWindowGeometry()
	}
	m := c.music
	c.mu.Unlock()
	c.persist()
	return m
}

// ToggleSidebar flips a sidebar's visibility, hiding the other one first
// when the viewport cannot hold both.
func (c *Controller) ToggleSidebar(loc layout.SidebarLocation) transition.Transition {
	c.mu.Lock()
	spec := c.requested
	target := spec
	sb := spec.SidebarAt(loc)
	if sb.Visibility.OccupiesSpace() {
		target = spec.WithSidebarVisibility(loc, layout.SidebarHidden)
	} else {
		target = spec.WithSidebarVisibility(loc, layout.SidebarShown)
		other := layout.SidebarTrailing
		if loc == layout.SidebarTrailing {
			other = layout.SidebarLeading
		}
		lead, trail := target.Leading.Width, target.Trailing.Width
		if !target.Leading.Visibility.OccupiesSpace() {
			lead = 0
		}
		if !target.Trailing.Visibility.OccupiesSpace() {
			trail = 0
		}
		decision := layout.IsHideSidebarNeeded(lead, trail, c.geometry.ViewportSize().Width)
		if (other == layout.SidebarLeading && decision.HideLeading) ||
			(other == layout.SidebarTrailing && decision.HideTrailing) {
			target = target.WithSidebarVisibility(other, layout.SidebarHidden)
		}
	}
	c.mu.Unlock()
	return c.RequestTransition(target)
}

// SetMode requests a transition into the given window mode.
func (c *Controller) SetMode(mode layout.WindowMode) transition.Transition {
	return c.RequestTransition(c.pendingSpec().WithMode(mode))
}

// ApplyPreferences rebuilds the spec from new preferences, diffs against
// the current one, and requests a transition when they differ.
func (c *Controller) ApplyPreferences(prefs *settings.Preferences) bool {
	c.mu.Lock()
	c.prefs = prefs
	current := c.requested
	c.mu.Unlock()

	target := mergeWindowState(prefs.BuildSpec(), current)
	if target.Equal(current) {
		c.logger.Debugf("preferences reloaded; layout unchanged")
		return false
	}
	c.logger.Infof("preferences changed; transitioning layout")
	c.RequestTransition(target)
	return true
}

// RefreshScreens re-enumerates displays, refitting the window when its
// screen disappeared.
func (c *Controller) RefreshScreens() error {
	list, err := c.provider.Screens()
	if err != nil {
		return fmt.Errorf("enumerate screens: %w", err)
	}
	c.mu.Lock()
	c.screenList = list
	screen := c.resolveScreenLocked(c.geometry.ScreenID)
	if screen.ID != c.geometry.ScreenID {
		g := c.geometry
		g.ScreenID = screen.ID
		c.setGeometryLocked(g.Refit(layout.FitKeepInside, screen.Visible))
	}
	c.mu.Unlock()
	return nil
}

func (c *Controller) resolveScreenLocked(id string) screens.Screen {
	screen, err := screens.Resolve(c.screenList, id, c.logger)
	if err != nil {
		// No screens at all; synthesize a frame so geometry stays valid.
		return screens.DefaultStatic().List[0]
	}
	if screen.ID != id && id != "" {
		c.metrics.RecordScreenFallback()
	}
	return screen
}

func (c *Controller) setGeometryLocked(g layout.WindowGeometry) {
	c.geometry = g
	switch c.spec.Mode {
	case layout.ModeWindowed:
		c.windowed = g
	case layout.ModeMusic:
		c.music = layout.MusicModeGeometryFrom(g, c.music)
	}
}

// persist writes the session snapshot. Failures are logged, never fatal.
func (c *Controller) persist() {
	if c.storePath == "" {
		return
	}
	c.mu.Lock()
	session := &store.Session{
		Spec: store.SnapshotSpec(c.spec),
	}
	if !c.windowed.WindowFrame.IsEmpty() {
		session.Windowed = store.SnapshotGeometry(c.windowed)
	}
	if !c.music.WindowFrame.IsEmpty() {
		session.Music = store.SnapshotMusic(c.music)
	}
	path := c.storePath
	c.mu.Unlock()
	if err := store.Save(path, session); err != nil {
		c.logger.Errorf("persist session: %v", err)
	}
}
