package main

// IconHandle is an opaque OS icon identifier (0 means none).
type IconHandle uintptr

// iconSize selects which variant a window is asked for.
type iconSize int

const (
	iconSizeBig iconSize = iota
	iconSizeSmall
	iconSizeDefault
)

// windowInspector is the introspection side of the platform gateway:
// everything the enumerator needs to know about a candidate window.
// Single concrete implementation in shell.go, fakes in tests.
type windowInspector interface {
	// TopLevelWindows lists candidate window handles in whatever order
	// the OS enumeration produced. No z-order guarantee.
	TopLevelWindows() []WindowHandle
	IsVisible(WindowHandle) bool
	// Owner returns the owning window, or 0 for a true top-level window.
	Owner(WindowHandle) WindowHandle
	IsToolWindow(WindowHandle) bool
	// IsCloaked reports windows that are technically visible but
	// suppressed by virtual-desktop or suspended-app state.
	IsCloaked(WindowHandle) bool
	Title(WindowHandle) string
}

// iconSource is the icon side of the platform gateway, consumed by the
// resolution fallback chain. Every method is best effort.
type iconSource interface {
	WindowIcon(h WindowHandle, size iconSize) IconHandle
	ClassIcon(h WindowHandle, large bool) IconHandle
	// ProcessImagePath resolves the executable path of the process
	// owning h, or "" when the process cannot be introspected.
	ProcessImagePath(h WindowHandle) string
	// FileIcon asks the shell for the representative icon of a file.
	FileIcon(path string) IconHandle
}

// WindowEntry is one eligible top-level window. Entries are ephemeral:
// each enumeration cycle rebuilds the whole set and no identity carries
// across cycles.
type WindowEntry struct {
	Handle WindowHandle
	Title  string
	Icon   IconHandle // 0 when resolution came up empty
}

// eligibleWindow applies the filter chain in order, short-circuiting on
// the first failing predicate: visible, unowned, not a tool window, not
// cloaked, and carrying a non-empty title.
func eligibleWindow(ins windowInspector, h WindowHandle) bool {
	if !ins.IsVisible(h) {
		return false
	}
	if ins.Owner(h) != 0 {
		return false
	}
	if ins.IsToolWindow(h) {
		return false
	}
	if ins.IsCloaked(h) {
		return false
	}
	return ins.Title(h) != ""
}

// resolveIcon walks the fallback chain, first hit wins: the window's
// big, small, then default icon, the window class's big and small
// icons, and finally the shell icon of the owning process's executable.
// Failures at every step are absorbed; 0 means the caller should show
// the placeholder glyph.
func resolveIcon(src iconSource, h WindowHandle) IconHandle {
	for _, size := range []iconSize{iconSizeBig, iconSizeSmall, iconSizeDefault} {
		if ic := src.WindowIcon(h, size); ic != 0 {
			return ic
		}
	}
	if ic := src.ClassIcon(h, true); ic != 0 {
		return ic
	}
	if ic := src.ClassIcon(h, false); ic != 0 {
		return ic
	}
	if path := src.ProcessImagePath(h); path != "" {
		if ic := src.FileIcon(path); ic != 0 {
			return ic
		}
	}
	return 0
}

// windowEnumerator produces the current snapshot of eligible top-level
// windows, each enriched with a best-effort icon.
type windowEnumerator struct {
	ins   windowInspector
	icons iconSource
}

// Enumerate builds a fresh entry list. Output order follows the OS
// enumeration; duplicates are collapsed by handle (handles are unique
// per window, so titles never merge distinct windows).
func (we *windowEnumerator) Enumerate() []WindowEntry {
	handles := we.ins.TopLevelWindows()
	entries := make([]WindowEntry, 0, len(handles))
	seen := make(map[WindowHandle]bool, len(handles))
	for _, h := range handles {
		if seen[h] {
			continue
		}
		if !eligibleWindow(we.ins, h) {
			continue
		}
		seen[h] = true
		entries = append(entries, WindowEntry{
			Handle: h,
			Title:  we.ins.Title(h),
			Icon:   resolveIcon(we.icons, h),
		})
	}
	return entries
}
