package layout

// SidebarHideDecision reports which sidebars must close to free space.
type SidebarHideDecision struct {
	HideLeading  bool
	HideTrailing bool
}

// Any reports whether at least one sidebar must hide.
func (d SidebarHideDecision) Any() bool { return d.HideLeading || d.HideTrailing }

// IsHideSidebarNeeded decides whether the sidebars fit beside the video
// for the given viewport width. When space is insufficient the wider
// sidebar hides first; both hide only when the viewport cannot hold even
// the minimum gap with both sidebars at zero width.
func IsHideSidebarNeeded(leadingWidth, trailingWidth, viewportWidth float64) SidebarHideDecision {
	if viewportWidth < MinSidebarGap {
		return SidebarHideDecision{HideLeading: leadingWidth > 0, HideTrailing: trailingWidth > 0}
	}
	if leadingWidth+trailingWidth+MinSidebarGap <= viewportWidth {
		return SidebarHideDecision{}
	}
	if leadingWidth > 0 && trailingWidth > 0 {
		if leadingWidth >= trailingWidth {
			return SidebarHideDecision{HideLeading: true}
		}
		return SidebarHideDecision{HideTrailing: true}
	}
	if leadingWidth > 0 {
		return SidebarHideDecision{HideLeading: true}
	}
	if trailingWidth > 0 {
		return SidebarHideDecision{HideTrailing: true}
	}
	return SidebarHideDecision{}
}
