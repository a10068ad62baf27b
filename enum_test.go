package main

import (
	"reflect"
	"testing"
)

// fakeInspector serves a fixed window table.
type fakeWindow struct {
	visible bool
	owner   WindowHandle
	tool    bool
	cloaked bool
	title   string
}

type fakeInspector struct {
	order   []WindowHandle
	windows map[WindowHandle]fakeWindow
}

func (f *fakeInspector) TopLevelWindows() []WindowHandle { return f.order }
func (f *fakeInspector) IsVisible(h WindowHandle) bool   { return f.windows[h].visible }
func (f *fakeInspector) Owner(h WindowHandle) WindowHandle {
	return f.windows[h].owner
}
func (f *fakeInspector) IsToolWindow(h WindowHandle) bool { return f.windows[h].tool }
func (f *fakeInspector) IsCloaked(h WindowHandle) bool    { return f.windows[h].cloaked }
func (f *fakeInspector) Title(h WindowHandle) string      { return f.windows[h].title }

// fakeIcons scripts each step of the resolution chain and counts the
// probes so tests can assert the chain short-circuits.
type fakeIcons struct {
	windowIcons map[iconSize]IconHandle
	classBig    IconHandle
	classSmall  IconHandle
	imagePath   string
	fileIcon    IconHandle

	windowProbes  int
	classProbes   int
	processProbes int
	fileProbes    int
}

func (f *fakeIcons) WindowIcon(h WindowHandle, size iconSize) IconHandle {
	f.windowProbes++
	return f.windowIcons[size]
}

func (f *fakeIcons) ClassIcon(h WindowHandle, large bool) IconHandle {
	f.classProbes++
	if large {
		return f.classBig
	}
	return f.classSmall
}

func (f *fakeIcons) ProcessImagePath(h WindowHandle) string {
	f.processProbes++
	return f.imagePath
}

func (f *fakeIcons) FileIcon(path string) IconHandle {
	f.fileProbes++
	return f.fileIcon
}

func TestEligibleWindow(t *testing.T) {
	good := fakeWindow{visible: true, title: "app"}

	tests := []struct {
		name     string
		win      fakeWindow
		expected bool
	}{
		{"plain app window", good, true},
		{"invisible", fakeWindow{visible: false, title: "app"}, false},
		{"owned dialog", fakeWindow{visible: true, owner: 99, title: "save as"}, false},
		{"tool palette", fakeWindow{visible: true, tool: true, title: "palette"}, false},
		{"cloaked on other desktop", fakeWindow{visible: true, cloaked: true, title: "app"}, false},
		{"untitled", fakeWindow{visible: true, title: ""}, false},
		{"every strike at once", fakeWindow{owner: 99, tool: true, cloaked: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins := &fakeInspector{
				order:   []WindowHandle{1},
				windows: map[WindowHandle]fakeWindow{1: tt.win},
			}
			if got := eligibleWindow(ins, 1); got != tt.expected {
				t.Errorf("eligibleWindow(%+v) = %v, want %v", tt.win, got, tt.expected)
			}
		})
	}
}

func TestEligibleWindowFullMatrix(t *testing.T) {
	// Every combination of the five predicates; only the all-clear row
	// may survive.
	eligibleRows := 0
	for mask := 0; mask < 32; mask++ {
		row := fakeWindow{
			visible: mask&1 != 0,
			tool:    mask&4 != 0,
			cloaked: mask&8 != 0,
		}
		if mask&2 != 0 {
			row.owner = 99
		}
		if mask&16 != 0 {
			row.title = "app"
		}
		want := row.visible && row.owner == 0 && !row.tool && !row.cloaked && row.title != ""
		if want {
			eligibleRows++
		}

		ins := &fakeInspector{
			order:   []WindowHandle{1},
			windows: map[WindowHandle]fakeWindow{1: row},
		}
		if got := eligibleWindow(ins, 1); got != want {
			t.Errorf("eligibleWindow(visible=%v owned=%v tool=%v cloaked=%v titled=%v) = %v, want %v",
				row.visible, row.owner != 0, row.tool, row.cloaked, row.title != "", got, want)
		}
	}
	if eligibleRows != 1 {
		t.Fatalf("%d eligible rows in the matrix, want exactly 1", eligibleRows)
	}
}

func TestResolveIconFallbackChain(t *testing.T) {
	tests := []struct {
		name       string
		icons      fakeIcons
		expected   IconHandle
		fileProbes int
	}{
		{
			name:     "big window icon wins immediately",
			icons:    fakeIcons{windowIcons: map[iconSize]IconHandle{iconSizeBig: 10}},
			expected: 10,
		},
		{
			name:     "small window icon",
			icons:    fakeIcons{windowIcons: map[iconSize]IconHandle{iconSizeSmall: 11}},
			expected: 11,
		},
		{
			name:     "class icon after window icons fail",
			icons:    fakeIcons{classBig: 20},
			expected: 20,
		},
		{
			name:     "small class icon",
			icons:    fakeIcons{classSmall: 21},
			expected: 21,
		},
		{
			name:       "process executable icon as last resort",
			icons:      fakeIcons{imagePath: `C:\tools\app.exe`, fileIcon: 30},
			expected:   30,
			fileProbes: 1,
		},
		{
			name:     "no path means no file probe",
			icons:    fakeIcons{fileIcon: 30},
			expected: 0,
		},
		{
			name:     "everything fails",
			icons:    fakeIcons{},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			icons := tt.icons
			if got := resolveIcon(&icons, 1); got != tt.expected {
				t.Errorf("resolveIcon = %d, want %d", got, tt.expected)
			}
			if icons.fileProbes != tt.fileProbes {
				t.Errorf("file icon probed %d times, want %d", icons.fileProbes, tt.fileProbes)
			}
		})
	}
}

func TestResolveIconShortCircuits(t *testing.T) {
	icons := &fakeIcons{windowIcons: map[iconSize]IconHandle{iconSizeBig: 10}}
	resolveIcon(icons, 1)
	if icons.windowProbes != 1 {
		t.Errorf("probed window icons %d times after first hit, want 1", icons.windowProbes)
	}
	if icons.classProbes != 0 || icons.processProbes != 0 {
		t.Errorf("chain continued past first hit: class=%d process=%d",
			icons.classProbes, icons.processProbes)
	}
}

func TestEnumeratePreservesOrderAndFilters(t *testing.T) {
	ins := &fakeInspector{
		order: []WindowHandle{5, 2, 9, 7, 4},
		windows: map[WindowHandle]fakeWindow{
			5: {visible: true, title: "editor"},
			2: {visible: true, tool: true, title: "palette"},
			9: {visible: true, title: "browser"},
			7: {visible: false, title: "hidden"},
			4: {visible: true, title: "terminal"},
		},
	}
	we := &windowEnumerator{ins: ins, icons: &fakeIcons{}}

	entries := we.Enumerate()

	var handles []WindowHandle
	var titles []string
	for _, e := range entries {
		handles = append(handles, e.Handle)
		titles = append(titles, e.Title)
	}
	if !reflect.DeepEqual(handles, []WindowHandle{5, 9, 4}) {
		t.Errorf("handles = %v, want [5 9 4]", handles)
	}
	if !reflect.DeepEqual(titles, []string{"editor", "browser", "terminal"}) {
		t.Errorf("titles = %v, want [editor browser terminal]", titles)
	}
}

func TestEnumerateCollapsesDuplicateHandles(t *testing.T) {
	ins := &fakeInspector{
		order: []WindowHandle{3, 3, 8, 3},
		windows: map[WindowHandle]fakeWindow{
			3: {visible: true, title: "files"},
			8: {visible: true, title: "files"}, // same title, distinct window
		},
	}
	we := &windowEnumerator{ins: ins, icons: &fakeIcons{}}

	entries := we.Enumerate()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Handle != 3 || entries[1].Handle != 8 {
		t.Errorf("handles = [%d %d], want [3 8]", entries[0].Handle, entries[1].Handle)
	}
}

func TestEnumerateEmptyDesktop(t *testing.T) {
	we := &windowEnumerator{
		ins:   &fakeInspector{windows: map[WindowHandle]fakeWindow{}},
		icons: &fakeIcons{},
	}
	if entries := we.Enumerate(); len(entries) != 0 {
		t.Errorf("expected no entries, got %v", entries)
	}
}

func TestEnumerateAttachesIcons(t *testing.T) {
	ins := &fakeInspector{
		order: []WindowHandle{1},
		windows: map[WindowHandle]fakeWindow{
			1: {visible: true, title: "app"},
		},
	}
	we := &windowEnumerator{
		ins:   ins,
		icons: &fakeIcons{windowIcons: map[iconSize]IconHandle{iconSizeBig: 42}},
	}
	entries := we.Enumerate()
	if len(entries) != 1 || entries[0].Icon != 42 {
		t.Errorf("entries = %+v, want one entry with icon 42", entries)
	}
}
