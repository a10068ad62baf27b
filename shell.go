//go:build windows
// +build windows

package main

import (
	"fmt"
	"syscall"
	"unsafe"

	"github.com/lxn/win"
)

// win32Shell is the single concrete platform gateway: it implements
// shellGateway, windowInspector and iconSource on top of the real shell
// and user32 surface. All raw failure codes are translated here; the
// core above only ever sees Go values.
type win32Shell struct {
	desktops *virtualDesktops // nil when the COM surface is unavailable
}

func newWin32Shell() *win32Shell {
	return &win32Shell{desktops: newVirtualDesktops()}
}

// --- shellGateway ---

func (s *win32Shell) appBarMessage(verb uintptr, abd *APPBARDATA) uintptr {
	abd.CbSize = uint32(unsafe.Sizeof(*abd))
	ret, _, _ := procSHAppBarMessage.Call(verb, uintptr(unsafe.Pointer(abd)))
	return ret
}

func (s *win32Shell) AppBarNew(bar WindowHandle, callbackMsg uint32) error {
	abd := APPBARDATA{HWnd: win.HWND(bar), UCallbackMessage: callbackMsg}
	if ret := s.appBarMessage(ABM_NEW, &abd); ret == 0 {
		return fmt.Errorf("shell refused appbar registration")
	}
	return nil
}

func (s *win32Shell) AppBarRemove(bar WindowHandle) {
	abd := APPBARDATA{HWnd: win.HWND(bar)}
	s.appBarMessage(ABM_REMOVE, &abd)
}

func (s *win32Shell) AppBarQueryPos(bar WindowHandle, edge DockEdge, desired Rect) Rect {
	abd := APPBARDATA{HWnd: win.HWND(bar), UEdge: uint32(edge), Rc: rectToRECT(desired)}
	s.appBarMessage(ABM_QUERYPOS, &abd)
	return rectFromRECT(abd.Rc)
}

func (s *win32Shell) AppBarSetPos(bar WindowHandle, edge DockEdge, final Rect) Rect {
	abd := APPBARDATA{HWnd: win.HWND(bar), UEdge: uint32(edge), Rc: rectToRECT(final)}
	s.appBarMessage(ABM_SETPOS, &abd)
	return rectFromRECT(abd.Rc)
}

func (s *win32Shell) MoveBarWindow(bar WindowHandle, rect Rect) {
	win.SetWindowPos(win.HWND(bar), 0, rect.Left, rect.Top, rect.Width(), rect.Height(),
		win.SWP_NOZORDER|win.SWP_NOACTIVATE)
}

func (s *win32Shell) FloatBarWindow(bar WindowHandle, rect Rect) {
	win.SetWindowPos(win.HWND(bar), win.HWND_TOPMOST, rect.Left, rect.Top, rect.Width(), rect.Height(),
		win.SWP_NOACTIVATE)
}

func (s *win32Shell) BarWorkArea(bar WindowHandle) (Rect, float64) {
	hmon := win.MonitorFromWindow(win.HWND(bar), win.MONITOR_DEFAULTTONEAREST)
	var mi win.MONITORINFO
	mi.CbSize = uint32(unsafe.Sizeof(mi))
	if !win.GetMonitorInfo(hmon, &mi) {
		// Headless fallback: primary screen metrics.
		w, _, _ := procGetSystemMetrics.Call(uintptr(win.SM_CXSCREEN))
		h, _, _ := procGetSystemMetrics.Call(uintptr(win.SM_CYSCREEN))
		return Rect{Right: int32(w), Bottom: int32(h)}, dpiScaleFor(bar)
	}
	return rectFromRECT(mi.RcWork), dpiScaleFor(bar)
}

func dpiScaleFor(bar WindowHandle) float64 {
	if procGetDpiForWindow.Find() != nil {
		return 1
	}
	dpi, _, _ := procGetDpiForWindow.Call(uintptr(bar))
	if dpi == 0 {
		return 1
	}
	return float64(dpi) / 96.0
}

// --- windowInspector ---

// EnumWindows needs a C callback; callbacks cannot be released, so we
// create exactly one and collect into a package slice. Safe because
// enumeration only ever runs on the control thread.
var (
	enumResults  []WindowHandle
	enumCallback = syscall.NewCallback(func(hwnd uintptr, lParam uintptr) uintptr {
		enumResults = append(enumResults, WindowHandle(hwnd))
		return 1 // continue
	})
)

func (s *win32Shell) TopLevelWindows() []WindowHandle {
	enumResults = enumResults[:0]
	procEnumWindows.Call(enumCallback, 0)
	out := make([]WindowHandle, len(enumResults))
	copy(out, enumResults)
	return out
}

func (s *win32Shell) IsVisible(h WindowHandle) bool {
	return win.IsWindowVisible(win.HWND(h))
}

func (s *win32Shell) Owner(h WindowHandle) WindowHandle {
	owner, _, _ := procGetWindow.Call(uintptr(h), GW_OWNER)
	return WindowHandle(owner)
}

func (s *win32Shell) IsToolWindow(h WindowHandle) bool {
	ex := win.GetWindowLong(win.HWND(h), win.GWL_EXSTYLE)
	return ex&win.WS_EX_TOOLWINDOW != 0
}

// IsCloaked folds together the DWM cloak attribute (virtual desktops,
// suspended UWP apps) and, when the COM surface is up, an explicit
// current-desktop check.
func (s *win32Shell) IsCloaked(h WindowHandle) bool {
	var cloaked uint32
	hr, _, _ := procDwmGetWindowAttribute.Call(uintptr(h), DWMWA_CLOAKED,
		uintptr(unsafe.Pointer(&cloaked)), unsafe.Sizeof(cloaked))
	if hr == 0 && cloaked != 0 {
		return true
	}
	if s.desktops != nil && !s.desktops.OnCurrentDesktop(h) {
		return true
	}
	return false
}

func (s *win32Shell) Title(h WindowHandle) string {
	length, _, _ := procGetWindowTextLengthW.Call(uintptr(h))
	if length == 0 {
		return ""
	}
	buf := make([]uint16, length+1)
	n, _, _ := procGetWindowTextW.Call(uintptr(h), uintptr(unsafe.Pointer(&buf[0])), length+1)
	if n == 0 {
		return ""
	}
	return syscall.UTF16ToString(buf[:n])
}

// --- iconSource ---

// iconQueryTimeoutMs bounds WM_GETICON round-trips so a hung window
// cannot stall enumeration for long. No cancellation beyond this; slow
// process introspection is a known latency cost.
const iconQueryTimeoutMs = 200

func (s *win32Shell) WindowIcon(h WindowHandle, size iconSize) IconHandle {
	which := uintptr(ICON_BIG)
	switch size {
	case iconSizeSmall:
		which = ICON_SMALL
	case iconSizeDefault:
		which = ICON_SMALL2
	}
	var result uintptr
	ret, _, _ := procSendMessageTimeoutW.Call(uintptr(h), WM_GETICON, which, 0,
		SMTO_ABORTIFHUNG|SMTO_BLOCK, iconQueryTimeoutMs, uintptr(unsafe.Pointer(&result)))
	if ret == 0 || result == 0 {
		return 0
	}
	return copyIcon(result)
}

func (s *win32Shell) ClassIcon(h WindowHandle, large bool) IconHandle {
	index := GCLP_HICON
	if !large {
		index = GCLP_HICONSM
	}
	ic, _, _ := procGetClassLongPtrW.Call(uintptr(h), index)
	if ic == 0 {
		return 0
	}
	return copyIcon(ic)
}

// copyIcon duplicates an icon owned by a foreign window so the store
// can destroy our copy freely.
func copyIcon(ic uintptr) IconHandle {
	dup, _, _ := procCopyIcon.Call(ic)
	return IconHandle(dup)
}

func (s *win32Shell) ProcessImagePath(h WindowHandle) string {
	var pid uint32
	win.GetWindowThreadProcessId(win.HWND(h), &pid)
	if pid == 0 {
		return ""
	}
	hProc, _, _ := procOpenProcess.Call(PROCESS_QUERY_LIMITED_INFORMATION, 0, uintptr(pid))
	if hProc == 0 {
		// Access denied or the process exited mid-query; both yield
		// "no icon" without failing enumeration.
		return ""
	}
	defer win.CloseHandle(win.HANDLE(hProc))

	buf := make([]uint16, syscall.MAX_PATH)
	size := uint32(len(buf))
	ret, _, _ := procQueryFullProcessImageNameW.Call(hProc, 0,
		uintptr(unsafe.Pointer(&buf[0])), uintptr(unsafe.Pointer(&size)))
	if ret == 0 || size == 0 {
		return ""
	}
	return syscall.UTF16ToString(buf[:size])
}

func (s *win32Shell) FileIcon(path string) IconHandle {
	p, err := syscall.UTF16PtrFromString(path)
	if err != nil {
		return 0
	}
	var sfi SHFILEINFO
	ret, _, _ := procSHGetFileInfoW.Call(uintptr(unsafe.Pointer(p)), 0,
		uintptr(unsafe.Pointer(&sfi)), unsafe.Sizeof(sfi), SHGFI_ICON|SHGFI_LARGEICON)
	if ret == 0 {
		return 0
	}
	return IconHandle(sfi.HIcon)
}

// logDisplayEnvironment dumps the monitor layout and DPI at startup so
// geometry problems in the field are diagnosable from the log alone.
func logDisplayEnvironment(bar WindowHandle) {
	if logger == nil {
		return
	}
	logger.Printf("=== Display environment ===")
	cx, _, _ := procGetSystemMetrics.Call(uintptr(win.SM_CXSCREEN))
	cy, _, _ := procGetSystemMetrics.Call(uintptr(win.SM_CYSCREEN))
	logger.Printf("Primary screen: %dx%d", cx, cy)
	hmon := win.MonitorFromWindow(win.HWND(bar), win.MONITOR_DEFAULTTONEAREST)
	var mi win.MONITORINFO
	mi.CbSize = uint32(unsafe.Sizeof(mi))
	if win.GetMonitorInfo(hmon, &mi) {
		logger.Printf("Bar monitor: full=%s work=%s", rectFromRECT(mi.RcMonitor), rectFromRECT(mi.RcWork))
	}
	logger.Printf("DPI scale: %.2f", dpiScaleFor(bar))
}
