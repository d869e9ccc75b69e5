package controller

import (
	"github.com/viewframe/viewframe/internal/geometry"
	"github.com/viewframe/viewframe/internal/layout"
)

// The controller is its own transition applier: the serial queue applies
// task effects back onto the current layout under the controller's mutex.

func (c *Controller) CommitLayout(spec layout.Spec, st layout.State) {
	c.mu.Lock()
	c.spec = spec
	c.state = st
	c.mu.Unlock()
	c.logger.Tracef("layout committed {\"mode\":%q}", spec.Mode.String())
}

func (c *Controller) SetWindowStyle(decorated bool) {
	c.mu.Lock()
	c.decorated = decorated
	c.mu.Unlock()
	c.logger.Debugf("window style decorated=%v", decorated)
}

func (c *Controller) FadeChrome(visible bool) {
	c.mu.Lock()
	c.chromeShown = visible
	c.mu.Unlock()
}

func (c *Controller) ResizeBars(outside, inside geometry.Insets) {
	c.mu.Lock()
	g := c.geometry
	g.Outside = outside
	g.Inside = inside
	c.setGeometryLocked(g)
	c.mu.Unlock()
}

func (c *Controller) RestyleControls(pos layout.OSCPosition) {
	c.logger.Debugf("controls restyled to %s", pos.String())
}

func (c *Controller) SetWindowFrame(frame geometry.Rect) {
	c.mu.Lock()
	g := c.geometry
	g.WindowFrame = frame
	c.setGeometryLocked(g)
	c.mu.Unlock()
}

func (c *Controller) SetVideoSize(size geometry.Size) {
	c.binding.SetVideoSize(size)
}

func (c *Controller) SetKeepAspect(keep bool) {
	c.binding.SetKeepAspect(keep)
}

// ChromeShown reports whether the fadeable chrome is currently visible.
func (c *Controller) ChromeShown() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chromeShown
}

// Decorated reports whether the window carries native decoration.
func (c *Controller) Decorated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.decorated
}
