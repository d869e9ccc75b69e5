package transition

import (
	"math"
	"time"

	"github.com/viewframe/viewframe/internal/geometry"
	"github.com/viewframe/viewframe/internal/layout"
	"github.com/viewframe/viewframe/internal/screens"
)

// Request describes one layout change: where the window is now and the
// spec it should end up in. Cached per-mode geometries let mode switches
// restore the user's prior frame.
type Request struct {
	CurrentSpec  layout.Spec
	CurrentState layout.State
	Current      layout.WindowGeometry

	Windowed layout.WindowGeometry
	Music    layout.MusicModeGeometry

	Target layout.Spec
	Screen screens.Screen

	// VideoAspect at or below zero means the aspect ratio is not yet
	// known; the current geometry's ratio is retained.
	VideoAspect float64

	// Initial marks the very first layout application, which skips the
	// middle geometry and close phase.
	Initial bool
}

// Transition is the computed plan for one layout change: the output state
// and geometry plus the ordered task list a serial queue executes. Created,
// consumed, discarded; never persisted.
type Transition struct {
	InputState    layout.State
	InputGeometry layout.WindowGeometry

	OutputSpec     layout.Spec
	OutputState    layout.State
	OutputGeometry layout.WindowGeometry
	// OutputMusic carries the music-mode view of the output geometry when
	// the target mode is music.
	OutputMusic layout.MusicModeGeometry

	// Middle is the geometry applied between the close and open phases:
	// shrinking bars already at their final extent, growing bars still at
	// their initial one. Nil on the initial application.
	Middle *layout.WindowGeometry

	Tasks []Task
}

// NoOp reports whether the transition changes neither spec nor geometry.
func (t Transition) NoOp() bool {
	return t.OutputSpec.Equal(t.InputState.Spec) &&
		t.OutputGeometry.WindowFrame == t.InputGeometry.WindowFrame &&
		t.OutputGeometry.Outside == t.InputGeometry.Outside &&
		t.OutputGeometry.Inside == t.InputGeometry.Inside
}

// Build diffs the current layout against the target spec and produces the
// transition plan. Pure; the caller owns submitting the tasks to a queue.
func Build(req Request) Transition {
	aspect := req.VideoAspect
	if aspect <= 0 {
		aspect = req.Current.VideoAspect
	}
	target := layout.NewSpec(req.Target)
	outState := layout.BuildState(target)

	tr := Transition{
		InputState:    req.CurrentState,
		InputGeometry: req.Current,
		OutputSpec:    target,
		OutputState:   outState,
	}

	switch target.Mode {
	case layout.ModeFullScreen:
		tr.OutputGeometry = layout.BuildWindowGeometry(req.Screen.Frame, req.Screen.ID, outState, aspect)
	case layout.ModeMusic:
		music := req.Music
		if music.WindowFrame.IsEmpty() {
			music = layout.BuildMusicModeGeometry(req.Current.WindowFrame, req.Screen.ID, layout.PlaylistMinHeight, true, true, aspect)
		}
		music = music.WithAspect(aspect).Refit(req.Screen.Visible)
		tr.OutputMusic = music
		tr.OutputGeometry = music.ToWindowGeometry()
	default:
		g := req.Windowed
		if g.WindowFrame.IsEmpty() {
			g = req.Current
		}
		g = g.WithAspect(aspect).WithResizedBars(outState)
		tr.OutputGeometry = g.Refit(layout.FitKeepInside, req.Screen.Visible)
	}

	if !req.Initial {
		mid := middleGeometry(tr.InputGeometry, tr.OutputGeometry)
		tr.Middle = &mid
	}

	tr.Tasks = buildTasks(req, &tr)
	return tr
}

// middleGeometry holds the window frame while every bar takes the smaller
// of its input and output extents. Bars that shrink or change placement
// are already at their final (or zero) size; bars that grow wait for the
// open phase.
func middleGeometry(in, out layout.WindowGeometry) layout.WindowGeometry {
	mid := in
	mid.Outside = minInsets(in.Outside, out.Outside)
	mid.Inside = minInsets(in.Inside, out.Inside)
	return mid
}

func minInsets(a, b geometry.Insets) geometry.Insets {
	return geometry.Insets{
		Top:      math.Min(a.Top, b.Top),
		Bottom:   math.Min(a.Bottom, b.Bottom),
		Leading:  math.Min(a.Leading, b.Leading),
		Trailing: math.Min(a.Trailing, b.Trailing),
	}
}

func buildTasks(req Request, tr *Transition) []Task {
	var tasks []Task
	target := tr.OutputSpec
	current := req.CurrentSpec

	prepare := Task{Name: "prepare", Phase: PhasePrepare, Easing: EaseLinear}
	prepare.Effects = append(prepare.Effects, CommitLayout{Spec: target, State: tr.OutputState})
	if target.LegacyStyle != current.LegacyStyle || target.Mode != current.Mode {
		prepare.Effects = append(prepare.Effects, SetWindowStyle{Decorated: !target.LegacyStyle})
	}
	if target.Mode == layout.ModeFullScreen && current.Mode != layout.ModeFullScreen {
		// Aspect keeping fights the full-screen frame animation.
		prepare.Effects = append(prepare.Effects, SetKeepAspect{Keep: false})
	}
	tasks = append(tasks, prepare)

	openDuration := OpenPhaseDuration
	if target.Mode == layout.ModeMusic || current.Mode == layout.ModeMusic {
		openDuration = MusicPhaseDuration
	}

	if !req.Initial {
		shrink := Task{Name: "close-old", Phase: PhaseClose, Duration: ClosePhaseDuration, Easing: EaseOut}
		if chromeFadesOut(tr.InputState, tr.OutputState) {
			shrink.Effects = append(shrink.Effects, FadeChrome{Visible: false})
		}
		if tr.Middle != nil && (tr.Middle.Outside != tr.InputGeometry.Outside || tr.Middle.Inside != tr.InputGeometry.Inside) {
			shrink.Geometry = true
			shrink.Effects = append(shrink.Effects, ResizeBars{Outside: tr.Middle.Outside, Inside: tr.Middle.Inside})
		}
		if len(shrink.Effects) > 0 {
			tasks = append(tasks, shrink)
		}
	}

	if target.OSCEnabled != current.OSCEnabled || target.OSCPosition != current.OSCPosition {
		tasks = append(tasks, Task{
			Name:    "restyle-controls",
			Phase:   PhaseRestyle,
			Easing:  EaseLinear,
			Effects: []Effect{RestyleControls{Position: target.OSCPosition}},
		})
	}

	if target.Mode == layout.ModeFullScreen && target.LegacyStyle && current.Mode != layout.ModeFullScreen {
		// Legacy full screen first covers the visible frame, then expands
		// over the full monitor frame, so the window never bounces past a
		// camera housing.
		tasks = append(tasks,
			openTask("open-new", openDuration, tr, req.Screen.Visible),
			Task{
				Name:     "expand-legacy",
				Phase:    PhaseOpen,
				Duration: ClosePhaseDuration,
				Easing:   EaseInOut,
				Geometry: true,
				Effects:  []Effect{SetWindowFrame{Frame: req.Screen.Frame}},
			},
		)
	} else {
		tasks = append(tasks, openTask("open-new", openDuration, tr, tr.OutputGeometry.WindowFrame))
	}

	if current.Mode == layout.ModeFullScreen && target.Mode != layout.ModeFullScreen {
		last := &tasks[len(tasks)-1]
		last.Effects = append(last.Effects, SetKeepAspect{Keep: true})
	}
	return tasks
}

func openTask(name string, d time.Duration, tr *Transition, frame geometry.Rect) Task {
	out := tr.OutputGeometry
	effects := []Effect{
		SetWindowFrame{Frame: frame},
		ResizeBars{Outside: out.Outside, Inside: out.Inside},
		FadeChrome{Visible: true},
		SetVideoSize{Size: out.VideoSize().Rounded()},
	}
	return Task{Name: name, Phase: PhaseOpen, Duration: d, Easing: EaseInOut, Geometry: true, Effects: effects}
}

// chromeFadesOut reports whether any chrome region shown in the input
// state disappears in the output state.
func chromeFadesOut(in, out layout.State) bool {
	pairs := [][2]layout.Visibility{
		{in.TitleBar, out.TitleBar},
		{in.TopBar, out.TopBar},
		{in.BottomBar, out.BottomBar},
		{in.FloatingOSC, out.FloatingOSC},
		{in.LeadingSidebarToggle, out.LeadingSidebarToggle},
		{in.TrailingSidebarToggle, out.TrailingSidebarToggle},
	}
	for _, p := range pairs {
		if p[0].IsShown() && !p[1].IsShown() {
			return true
		}
	}
	return false
}
