package main

import (
	"fmt"
	"time"
)

const (
	barThicknessPx        = 44 // logical px, normal size
	barThicknessCompactPx = 30
)

var barThemes = []string{"onyx", "slate", "ocean", "plum"}

// nextTheme cycles through the known theme names; unknown input resets
// to the first theme. Mirrored by nextTheme() in ui.html.
func nextTheme(current string) string {
	for i, name := range barThemes {
		if name == current {
			return barThemes[(i+1)%len(barThemes)]
		}
	}
	return barThemes[0]
}

// taskButton is the presentation form of one WindowEntry.
type taskButton struct {
	Handle  string `json:"handle"` // hex key, doubles as the icon key
	Title   string `json:"title"`
	HasIcon bool   `json:"hasIcon"`
}

// barSnapshot is the wholesale state pushed to the presentation layer.
// Every refresh replaces the previous snapshot completely.
type barSnapshot struct {
	Edge    string       `json:"edge"`
	Compact bool         `json:"compact"`
	Theme   string       `json:"theme"`
	Windows []taskButton `json:"windows"`
}

func handleKey(h WindowHandle) string {
	return fmt.Sprintf("%x", uintptr(h))
}

// iconStore converts resolved icons into servable images and keeps them
// for the presentation layer. Concrete implementation in icons.go.
type iconStore interface {
	// Render converts and caches the icon for h, reporting whether an
	// image is now available. It takes ownership of ic and releases it
	// once converted.
	Render(h WindowHandle, ic IconHandle) bool
	// Has reports whether an image is cached for h.
	Has(h WindowHandle) bool
	// PNG returns the cached image for a handle key.
	PNG(key string) ([]byte, bool)
	// Prune drops cached images for handles not in live.
	Prune(live map[WindowHandle]bool)
}

// dockBarController is the top-level orchestrator: it owns the appbar
// client, the enumerator output and the user-facing commands. Every
// method runs on the single control thread; the published snapshot is
// the only thing that crosses to other goroutines.
type dockBarController struct {
	appbar  *appBarClient
	enum    *windowEnumerator
	icons   iconStore
	publish func(barSnapshot)
	onClose []func()

	entries []WindowEntry
	closed  bool
}

func newDockBarController(appbar *appBarClient, enum *windowEnumerator, icons iconStore, publish func(barSnapshot)) *dockBarController {
	if publish == nil {
		publish = func(barSnapshot) {}
	}
	return &dockBarController{appbar: appbar, enum: enum, icons: icons, publish: publish}
}

// Start registers the reservation for the configured edge and builds
// the first window snapshot.
func (c *dockBarController) Start() {
	c.appbar.Register(settings.DockEdge(), c.thickness())
	c.Refresh()
}

func (c *dockBarController) thickness() int {
	if settings.Compact {
		return barThicknessCompactPx
	}
	return barThicknessPx
}

// ToggleEdge switches the bar to the opposite documented edge in place.
func (c *dockBarController) ToggleEdge() {
	if c.closed {
		return
	}
	edge := c.appbar.Edge().Opposite()
	c.appbar.SetEdge(edge)
	settings.Edge = edge.String()
	saveSettings()
	c.publishSnapshot()
}

// ToggleSize flips between the normal and compact thickness.
func (c *dockBarController) ToggleSize() {
	if c.closed {
		return
	}
	settings.Compact = !settings.Compact
	saveSettings()
	c.appbar.SetThickness(c.thickness())
	c.publishSnapshot()
}

// CycleColorTheme advances the presentation theme. Layout is untouched;
// the UI applies the theme name.
func (c *dockBarController) CycleColorTheme() {
	if c.closed {
		return
	}
	settings.Theme = nextTheme(settings.Theme)
	saveSettings()
	c.publishSnapshot()
}

// Refresh rebuilds the eligible-window list and replaces the published
// snapshot wholesale.
func (c *dockBarController) Refresh() {
	if c.closed {
		return
	}
	c.entries = c.enum.Enumerate()
	live := make(map[WindowHandle]bool, len(c.entries))
	for _, e := range c.entries {
		live[e.Handle] = true
		if c.icons != nil && e.Icon != 0 {
			c.icons.Render(e.Handle, e.Icon)
		}
	}
	if c.icons != nil {
		c.icons.Prune(live)
	}
	c.publishSnapshot()
}

func (c *dockBarController) publishSnapshot() {
	buttons := make([]taskButton, 0, len(c.entries))
	for _, e := range c.entries {
		hasIcon := c.icons != nil && c.icons.Has(e.Handle)
		buttons = append(buttons, taskButton{
			Handle:  handleKey(e.Handle),
			Title:   e.Title,
			HasIcon: hasIcon,
		})
	}
	c.publish(barSnapshot{
		Edge:    c.appbar.Edge().String(),
		Compact: settings.Compact,
		Theme:   settings.Theme,
		Windows: buttons,
	})
}

// OnClose appends a cleanup hook run exactly once during Close.
func (c *dockBarController) OnClose(fn func()) {
	c.onClose = append(c.onClose, fn)
}

// Close releases the reservation and runs cleanup hooks. Safe to call
// more than once; every path out of the application funnels through
// here so the reservation transitions to inactive exactly once.
func (c *dockBarController) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.appbar.Unregister()
	for _, fn := range c.onClose {
		func() {
			defer safeDefer("controller close hook")
			fn()
		}()
	}
	logf("[CONTROLLER] closed")
}

// trayState is the slice of settings the tray menu needs. The settings
// globals belong to the control thread, so the tray thread works from
// this copy instead of reading them directly.
type trayState struct {
	edge             DockEdge
	compact          bool
	startWithWindows bool
}

func captureTrayState() trayState {
	return trayState{
		edge:             settings.DockEdge(),
		compact:          settings.Compact,
		startWithWindows: settings.StartWithWindows,
	}
}

func (s trayState) edgeLabel() string {
	return "Dock on " + s.edge.Opposite().String() + " edge"
}

func (s trayState) sizeLabel() string {
	if s.compact {
		return "Normal bar"
	}
	return "Compact bar"
}

// fetchTrayState captures the settings snapshot on the control thread.
// A stuck control thread falls back to defaults so the menu still opens.
func fetchTrayState(invoke func(func())) trayState {
	ch := make(chan trayState, 1)
	invoke(func() { ch <- captureTrayState() })
	select {
	case s := <-ch:
		return s
	case <-time.After(2 * time.Second):
		return trayState{edge: EdgeTop}
	}
}

// EntryByKey finds the current entry for a presentation handle key.
func (c *dockBarController) EntryByKey(key string) (WindowEntry, bool) {
	for _, e := range c.entries {
		if handleKey(e.Handle) == key {
			return e, true
		}
	}
	return WindowEntry{}, false
}
