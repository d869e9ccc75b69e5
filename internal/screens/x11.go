package screens

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/viewframe/viewframe/internal/geometry"
)

// X11 enumerates monitors over RandR. The visible frame of each screen is
// its CRTC rectangle intersected with the EWMH work area, so panels and
// docks never sit under the window.
type X11 struct {
	xu   *xgbutil.XUtil
	root xproto.Window
}

// ConnectX11 opens a connection to the running X server and initializes
// the RandR extension.
func ConnectX11() (*X11, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect to X server: %w", err)
	}
	if err := randr.Init(xu.Conn()); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("randr init: %w", err)
	}
	return &X11{xu: xu, root: xu.RootWin()}, nil
}

// Close disconnects from the X server.
func (x *X11) Close() {
	x.xu.Conn().Close()
}

func (x *X11) Screens() ([]Screen, error) {
	resources, err := randr.GetScreenResources(x.xu.Conn(), x.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("get screen resources: %w", err)
	}

	var primaryOutput randr.Output
	if reply, err := randr.GetOutputPrimary(x.xu.Conn(), x.root).Reply(); err == nil {
		primaryOutput = reply.Output
	}

	workArea := x.currentWorkArea()

	var list []Screen
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(x.xu.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("screen%d", i)
		primary := false
		for _, output := range info.Outputs {
			if output == primaryOutput && primaryOutput != 0 {
				primary = true
			}
		}
		if outputInfo, err := randr.GetOutputInfo(x.xu.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(outputInfo.Name)
		}

		frame := geometry.Rect{
			X:      float64(info.X),
			Y:      float64(info.Y),
			Width:  float64(info.Width),
			Height: float64(info.Height),
		}
		visible := frame
		if !workArea.IsEmpty() {
			if isect := frame.Intersection(workArea); !isect.IsEmpty() {
				visible = isect
			}
		}

		list = append(list, Screen{
			ID:      name,
			Name:    name,
			Frame:   frame,
			Visible: visible,
			Primary: primary,
		})
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("no active monitors")
	}
	return list, nil
}

// currentWorkArea reads the EWMH work area for the current desktop. A
// zero rect means the window manager publishes none.
func (x *X11) currentWorkArea() geometry.Rect {
	workAreas, err := ewmh.WorkareaGet(x.xu)
	if err != nil || len(workAreas) == 0 {
		return geometry.Rect{}
	}
	index := 0
	if desktop, err := ewmh.CurrentDesktopGet(x.xu); err == nil && int(desktop) < len(workAreas) {
		index = int(desktop)
	}
	wa := workAreas[index]
	return geometry.Rect{
		X:      float64(wa.X),
		Y:      float64(wa.Y),
		Width:  float64(wa.Width),
		Height: float64(wa.Height),
	}
}
