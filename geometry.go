package main

import "fmt"

// DockEdge selects the screen edge along which the bar reserves space.
// Values match the shell's appbar edge encoding so they can be passed
// through to the registration protocol unchanged. Only left and top are
// wired up today; right and bottom exist so the geometry stays
// edge-agnostic.
type DockEdge uint32

const (
	EdgeLeft   DockEdge = 0
	EdgeTop    DockEdge = 1
	EdgeRight  DockEdge = 2
	EdgeBottom DockEdge = 3
)

func (e DockEdge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeTop:
		return "top"
	case EdgeRight:
		return "right"
	case EdgeBottom:
		return "bottom"
	}
	return fmt.Sprintf("edge(%d)", uint32(e))
}

// Opposite returns the other documented dock edge.
func (e DockEdge) Opposite() DockEdge {
	if e == EdgeTop {
		return EdgeLeft
	}
	return EdgeTop
}

// Vertical reports whether the bar runs down the side of the screen
// rather than along the top or bottom.
func (e DockEdge) Vertical() bool {
	return e == EdgeLeft || e == EdgeRight
}

// Rect is a screen rectangle in physical pixels, layout-compatible with
// the shell's RECT so the platform gateway can convert it cheaply.
type Rect struct {
	Left, Top, Right, Bottom int32
}

func (r Rect) Width() int32  { return r.Right - r.Left }
func (r Rect) Height() int32 { return r.Bottom - r.Top }

func (r Rect) Empty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// Intersects reports whether r and o share any pixel.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.Left < o.Right && o.Left < r.Right && r.Top < o.Bottom && o.Top < r.Bottom
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d) %dx%d", r.Left, r.Top, r.Right, r.Bottom, r.Width(), r.Height())
}

// dockSlackPx pads the thickness dimension so shell-side rounding can
// never clip the last pixel row or column of bar content.
const dockSlackPx = 2

// scaleThickness converts a logical thickness to physical pixels for the
// given DPI scale factor and adds the slack padding.
func scaleThickness(thicknessLogicalPx int, dpiScale float64) int32 {
	if dpiScale < 1 {
		dpiScale = 1
	}
	return int32(float64(thicknessLogicalPx)*dpiScale+0.5) + dockSlackPx
}

// computeDockRect produces the desired reserved rectangle for a dock
// edge within the given monitor work area. Top spans the full work-area
// width, left spans the full height; the formulas are symmetric so
// toggling edges round-trips exactly.
func computeDockRect(edge DockEdge, thicknessLogicalPx int, workArea Rect, dpiScale float64) Rect {
	thick := scaleThickness(thicknessLogicalPx, dpiScale)
	switch edge {
	case EdgeLeft:
		return Rect{
			Left:   workArea.Left,
			Top:    workArea.Top,
			Right:  workArea.Left + thick,
			Bottom: workArea.Bottom,
		}
	case EdgeRight:
		return Rect{
			Left:   workArea.Right - thick,
			Top:    workArea.Top,
			Right:  workArea.Right,
			Bottom: workArea.Bottom,
		}
	case EdgeBottom:
		return Rect{
			Left:   workArea.Left,
			Top:    workArea.Bottom - thick,
			Right:  workArea.Right,
			Bottom: workArea.Bottom,
		}
	default: // EdgeTop
		return Rect{
			Left:   workArea.Left,
			Top:    workArea.Top,
			Right:  workArea.Right,
			Bottom: workArea.Top + thick,
		}
	}
}
