package main

import (
	"path/filepath"
	"testing"
)

// fakeIconStore records render/prune traffic for the controller tests.
type fakeIconStore struct {
	rendered map[WindowHandle]int
	released []IconHandle
	pruned   []map[WindowHandle]bool
}

func newFakeIconStore() *fakeIconStore {
	return &fakeIconStore{rendered: make(map[WindowHandle]int)}
}

func (f *fakeIconStore) Render(h WindowHandle, ic IconHandle) bool {
	f.rendered[h]++
	f.released = append(f.released, ic)
	return true
}

func (f *fakeIconStore) Has(h WindowHandle) bool {
	return f.rendered[h] > 0
}

func (f *fakeIconStore) PNG(key string) ([]byte, bool) { return nil, false }

func (f *fakeIconStore) Prune(live map[WindowHandle]bool) {
	f.pruned = append(f.pruned, live)
}

// isolateSettings points persistence at a temp dir and restores the
// global settings afterwards.
func isolateSettings(t *testing.T) {
	t.Helper()
	origSettings := settings
	origFile := settingsFile
	settingsFile = filepath.Join(t.TempDir(), "settings.json")
	loadSettings()
	t.Cleanup(func() {
		settings = origSettings
		settingsFile = origFile
	})
}

func newControllerFixture(t *testing.T) (*dockBarController, *fakeShell, *fakeInspector, *fakeIconStore, *[]barSnapshot) {
	t.Helper()
	isolateSettings(t)

	shell := newFakeShell()
	ins := &fakeInspector{
		order: []WindowHandle{1, 2},
		windows: map[WindowHandle]fakeWindow{
			1: {visible: true, title: "editor"},
			2: {visible: true, title: "browser"},
		},
	}
	icons := newFakeIconStore()
	src := &fakeIcons{windowIcons: map[iconSize]IconHandle{iconSizeBig: 42}}
	client := newAppBarClient(shell, 1, WM_APP_BAR_POS)

	published := &[]barSnapshot{}
	c := newDockBarController(client, &windowEnumerator{ins: ins, icons: src}, icons,
		func(s barSnapshot) { *published = append(*published, s) })
	return c, shell, ins, icons, published
}

func lastSnapshot(t *testing.T, published *[]barSnapshot) barSnapshot {
	t.Helper()
	if len(*published) == 0 {
		t.Fatal("no snapshot published")
	}
	return (*published)[len(*published)-1]
}

func TestControllerStartPublishesInitialSnapshot(t *testing.T) {
	c, shell, _, icons, published := newControllerFixture(t)

	c.Start()

	if !c.appbar.Registered() {
		t.Fatal("Start did not register the reservation")
	}
	if shell.setCalls != 1 {
		t.Errorf("position committed %d times, want 1", shell.setCalls)
	}

	snap := lastSnapshot(t, published)
	if snap.Edge != "top" {
		t.Errorf("edge = %q, want top", snap.Edge)
	}
	if len(snap.Windows) != 2 {
		t.Fatalf("got %d windows, want 2", len(snap.Windows))
	}
	if snap.Windows[0].Title != "editor" || snap.Windows[1].Title != "browser" {
		t.Errorf("window titles = %+v", snap.Windows)
	}
	if !snap.Windows[0].HasIcon {
		t.Error("first window should have a rendered icon")
	}
	if icons.rendered[1] != 1 || icons.rendered[2] != 1 {
		t.Errorf("rendered counts = %v, want one render per window", icons.rendered)
	}
}

func TestControllerRefreshPrunesDepartedWindows(t *testing.T) {
	c, _, ins, icons, published := newControllerFixture(t)
	c.Start()

	// Window 2 goes away.
	ins.order = []WindowHandle{1}
	c.Refresh()

	snap := lastSnapshot(t, published)
	if len(snap.Windows) != 1 || snap.Windows[0].Title != "editor" {
		t.Errorf("snapshot after departure = %+v", snap.Windows)
	}
	if len(icons.pruned) == 0 {
		t.Fatal("Prune never called")
	}
	live := icons.pruned[len(icons.pruned)-1]
	if !live[1] || live[2] {
		t.Errorf("live set = %v, want {1}", live)
	}
}

func TestControllerToggleEdge(t *testing.T) {
	c, shell, _, _, published := newControllerFixture(t)
	c.Start()

	c.ToggleEdge()

	if c.appbar.Edge() != EdgeLeft {
		t.Errorf("edge = %s, want left", c.appbar.Edge())
	}
	if settings.Edge != "left" {
		t.Errorf("persisted edge = %q, want left", settings.Edge)
	}
	if snap := lastSnapshot(t, published); snap.Edge != "left" {
		t.Errorf("published edge = %q, want left", snap.Edge)
	}
	if shell.removeCalls != 0 {
		t.Error("edge toggle tore down the registration")
	}

	c.ToggleEdge()
	if c.appbar.Edge() != EdgeTop || settings.Edge != "top" {
		t.Errorf("second toggle: edge=%s persisted=%q, want top/top", c.appbar.Edge(), settings.Edge)
	}
}

func TestControllerToggleSize(t *testing.T) {
	c, _, _, _, published := newControllerFixture(t)
	c.Start()

	c.ToggleSize()

	if !settings.Compact {
		t.Error("compact flag not persisted")
	}
	if got, want := c.appbar.Geometry().Height(), scaleThickness(barThicknessCompactPx, 1.0); got != want {
		t.Errorf("compact height = %d, want %d", got, want)
	}
	if snap := lastSnapshot(t, published); !snap.Compact {
		t.Error("published snapshot not compact")
	}

	c.ToggleSize()
	if settings.Compact {
		t.Error("second toggle did not restore normal size")
	}
	if got, want := c.appbar.Geometry().Height(), scaleThickness(barThicknessPx, 1.0); got != want {
		t.Errorf("restored height = %d, want %d", got, want)
	}
}

func TestControllerCycleColorTheme(t *testing.T) {
	c, _, _, _, published := newControllerFixture(t)
	c.Start()

	seen := map[string]bool{settings.Theme: true}
	for i := 0; i < len(barThemes)-1; i++ {
		c.CycleColorTheme()
		seen[lastSnapshot(t, published).Theme] = true
	}
	if len(seen) != len(barThemes) {
		t.Errorf("cycled through %d themes, want %d: %v", len(seen), len(barThemes), seen)
	}

	c.CycleColorTheme()
	if settings.Theme != barThemes[0] {
		t.Errorf("full cycle ended on %q, want %q", settings.Theme, barThemes[0])
	}
}

func TestNextThemeResetsOnUnknown(t *testing.T) {
	if got := nextTheme("neon"); got != barThemes[0] {
		t.Errorf("nextTheme(unknown) = %q, want %q", got, barThemes[0])
	}
	if got := nextTheme(barThemes[len(barThemes)-1]); got != barThemes[0] {
		t.Errorf("nextTheme(last) = %q, want wrap to %q", got, barThemes[0])
	}
}

func TestControllerCloseIsIdempotent(t *testing.T) {
	c, shell, _, _, _ := newControllerFixture(t)
	c.Start()

	var hookRuns int
	c.OnClose(func() { hookRuns++ })
	c.OnClose(func() { panic("cleanup failure") }) // must not stop the rest
	c.OnClose(func() { hookRuns++ })

	c.Close()
	c.Close()

	if shell.removeCalls != 1 {
		t.Errorf("reservation removed %d times, want 1", shell.removeCalls)
	}
	if hookRuns != 2 {
		t.Errorf("close hooks ran %d times, want 2", hookRuns)
	}
}

func TestControllerCommandsAfterCloseAreNoops(t *testing.T) {
	c, shell, _, _, published := newControllerFixture(t)
	c.Start()
	c.Close()

	before := len(*published)
	queries := shell.queryCalls

	c.ToggleEdge()
	c.ToggleSize()
	c.CycleColorTheme()
	c.Refresh()

	if len(*published) != before {
		t.Error("closed controller still published snapshots")
	}
	if shell.queryCalls != queries {
		t.Error("closed controller still negotiated positions")
	}
}

func TestFetchTrayStateReadsSettingsThroughInvoke(t *testing.T) {
	isolateSettings(t)
	settings.Edge = "left"
	settings.Compact = true
	settings.StartWithWindows = true

	invoked := 0
	st := fetchTrayState(func(fn func()) {
		invoked++
		fn()
	})

	if invoked != 1 {
		t.Fatalf("settings captured outside invoke: %d calls", invoked)
	}
	if st.edge != EdgeLeft || !st.compact || !st.startWithWindows {
		t.Errorf("snapshot = %+v, want left/compact/start-with-windows", st)
	}
}

func TestTrayStateLabels(t *testing.T) {
	tests := []struct {
		name     string
		st       trayState
		edgeText string
		sizeText string
	}{
		{"top normal", trayState{edge: EdgeTop}, "Dock on left edge", "Compact bar"},
		{"left compact", trayState{edge: EdgeLeft, compact: true}, "Dock on top edge", "Normal bar"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.st.edgeLabel(); got != tt.edgeText {
				t.Errorf("edgeLabel = %q, want %q", got, tt.edgeText)
			}
			if got := tt.st.sizeLabel(); got != tt.sizeText {
				t.Errorf("sizeLabel = %q, want %q", got, tt.sizeText)
			}
		})
	}
}

func TestEntryByKey(t *testing.T) {
	c, _, _, _, _ := newControllerFixture(t)
	c.Start()

	entry, ok := c.EntryByKey(handleKey(2))
	if !ok || entry.Title != "browser" {
		t.Errorf("EntryByKey(2) = %+v, %v", entry, ok)
	}
	if _, ok := c.EntryByKey("dead"); ok {
		t.Error("unknown key reported found")
	}
}
