package main

// WindowHandle is an opaque OS window identifier. The core never
// interprets it; only the platform gateway does.
type WindowHandle uintptr

// shellGateway is the single seam between the dock core and the shell's
// reserved-area protocol. The one concrete implementation lives in
// shell.go; tests substitute fakes. Gateway methods absorb and translate
// raw OS failure codes so the core never sees them.
type shellGateway interface {
	// AppBarNew registers the bar window with the shell and nominates
	// the message id for repositioning callbacks.
	AppBarNew(bar WindowHandle, callbackMsg uint32) error
	// AppBarRemove releases the reservation. Best effort.
	AppBarRemove(bar WindowHandle)
	// AppBarQueryPos submits a desired rectangle and returns the
	// shell's adjusted proposal (it may shrink or shift the rectangle
	// to avoid other reserved regions).
	AppBarQueryPos(bar WindowHandle, edge DockEdge, desired Rect) Rect
	// AppBarSetPos commits the final rectangle and returns it as the
	// shell recorded it.
	AppBarSetPos(bar WindowHandle, edge DockEdge, final Rect) Rect
	// MoveBarWindow resizes/repositions the bar's own window to match
	// the reserved rectangle.
	MoveBarWindow(bar WindowHandle, rect Rect)
	// FloatBarWindow places the bar as an ordinary always-on-top
	// window at the given rectangle, used when registration is
	// unavailable.
	FloatBarWindow(bar WindowHandle, rect Rect)
	// BarWorkArea returns the work area and DPI scale factor of the
	// monitor hosting the bar.
	BarWorkArea(bar WindowHandle) (Rect, float64)
}

// appBarClient owns the reserved-area registration lifecycle and the
// bar geometry. BarGeometry is mutated here and nowhere else. All
// methods run on the control thread.
type appBarClient struct {
	shell       shellGateway
	bar         WindowHandle
	callbackMsg uint32

	edge      DockEdge
	thickness int // logical px

	registered  bool
	floating    bool
	negotiating bool
	geometry    Rect
}

func newAppBarClient(shell shellGateway, bar WindowHandle, callbackMsg uint32) *appBarClient {
	return &appBarClient{shell: shell, bar: bar, callbackMsg: callbackMsg}
}

// Register requests a reservation for the given edge. Calling while a
// registration (or the floating fallback) is active is a no-op. If the
// shell refuses, the bar degrades to a floating always-on-top window at
// the same geometry: functional, just without overlap avoidance.
func (c *appBarClient) Register(edge DockEdge, thicknessLogicalPx int) {
	if c.registered || c.floating {
		return
	}
	c.edge = edge
	c.thickness = thicknessLogicalPx
	if err := c.shell.AppBarNew(c.bar, c.callbackMsg); err != nil {
		logf("[APPBAR] registration rejected (%v); falling back to floating mode", err)
		c.floating = true
	} else {
		c.registered = true
		logf("[APPBAR] registered on %s edge", edge)
	}
	c.Negotiate()
}

// Negotiate runs the two-phase position protocol for the current edge
// and thickness: query the shell with the desired rectangle, re-apply
// the thickness (with slack) to whatever the shell proposed, then commit
// it and move the bar window to match.
func (c *appBarClient) Negotiate() {
	if !c.registered && !c.floating {
		return
	}
	// Moving the bar window raises position-change notifications that
	// route straight back here; the guard breaks that cycle.
	if c.negotiating {
		return
	}
	c.negotiating = true
	defer func() { c.negotiating = false }()

	workArea, scale := c.shell.BarWorkArea(c.bar)
	desired := computeDockRect(c.edge, c.thickness, workArea, scale)

	if c.floating {
		c.geometry = desired
		c.shell.FloatBarWindow(c.bar, desired)
		logf("[APPBAR] floating at %s", desired)
		return
	}

	adjusted := c.shell.AppBarQueryPos(c.bar, c.edge, desired)

	// The shell may have shrunk the proposal; re-derive the thickness
	// dimension from the adjusted anchor so the returned rounding can
	// never clip bar content.
	thick := scaleThickness(c.thickness, scale)
	switch c.edge {
	case EdgeLeft:
		adjusted.Right = adjusted.Left + thick
	case EdgeRight:
		adjusted.Left = adjusted.Right - thick
	case EdgeBottom:
		adjusted.Top = adjusted.Bottom - thick
	default:
		adjusted.Bottom = adjusted.Top + thick
	}

	final := c.shell.AppBarSetPos(c.bar, c.edge, adjusted)
	c.geometry = final
	c.shell.MoveBarWindow(c.bar, final)
	logf("[APPBAR] negotiated %s edge: desired=%s final=%s", c.edge, desired, final)
}

// SetEdge changes the dock edge in place: the registration survives and
// the existing window is renegotiated to the new edge, avoiding the
// flicker of a destroy-and-recreate cycle.
func (c *appBarClient) SetEdge(edge DockEdge) {
	if edge == c.edge {
		return
	}
	logf("[APPBAR] edge change %s -> %s", c.edge, edge)
	c.edge = edge
	c.Negotiate()
}

// SetThickness changes the bar thickness (logical px) and renegotiates.
func (c *appBarClient) SetThickness(thicknessLogicalPx int) {
	if thicknessLogicalPx == c.thickness {
		return
	}
	c.thickness = thicknessLogicalPx
	c.Negotiate()
}

// Unregister releases the reservation if one is active. Idempotent and
// infallible: the second and later calls do nothing.
func (c *appBarClient) Unregister() {
	if c.registered {
		c.shell.AppBarRemove(c.bar)
		c.registered = false
		logf("[APPBAR] unregistered")
	}
	c.floating = false
}

func (c *appBarClient) Registered() bool { return c.registered }
func (c *appBarClient) Floating() bool   { return c.floating }
func (c *appBarClient) Edge() DockEdge   { return c.edge }
func (c *appBarClient) Geometry() Rect   { return c.geometry }
