//go:build windows
// +build windows

package main

import (
	"syscall"
	"unsafe"

	"github.com/go-ole/go-ole"
)

var (
	clsidVirtualDesktopManager = ole.NewGUID("{AA509086-5CA9-4C25-8F95-589D3C07B48A}")
	iidIVirtualDesktopManager  = ole.NewGUID("{A5CD92FF-29BE-454C-8D04-D82879FB3F1B}")
)

type iVirtualDesktopManagerVtbl struct {
	ole.IUnknownVtbl
	IsWindowOnCurrentVirtualDesktop uintptr
	GetWindowDesktopId              uintptr
	MoveWindowToDesktop             uintptr
}

// virtualDesktops wraps the shell's IVirtualDesktopManager. Windows
// parked on another virtual desktop report as visible but must not
// appear in the bar; this is the authoritative check for that case.
// Create and use only on the control thread (COM apartment rules).
type virtualDesktops struct {
	mgr *ole.IUnknown
}

// newVirtualDesktops returns nil when the COM surface is unavailable
// (old shell, COM not initialized); callers treat nil as "no check".
func newVirtualDesktops() *virtualDesktops {
	mgr, err := ole.CreateInstance(clsidVirtualDesktopManager, iidIVirtualDesktopManager)
	if err != nil {
		logf("[VDESK] IVirtualDesktopManager unavailable: %v", err)
		return nil
	}
	return &virtualDesktops{mgr: mgr}
}

func (v *virtualDesktops) vtbl() *iVirtualDesktopManagerVtbl {
	return (*iVirtualDesktopManagerVtbl)(unsafe.Pointer(v.mgr.RawVTable))
}

// OnCurrentDesktop reports whether the window lives on the active
// virtual desktop. Query failures count as "yes" so a flaky COM call
// can never hide real windows.
func (v *virtualDesktops) OnCurrentDesktop(h WindowHandle) bool {
	var onCurrent int32
	hr, _, _ := syscall.SyscallN(v.vtbl().IsWindowOnCurrentVirtualDesktop,
		uintptr(unsafe.Pointer(v.mgr)), uintptr(h), uintptr(unsafe.Pointer(&onCurrent)))
	if hr != 0 {
		return true
	}
	return onCurrent != 0
}

func (v *virtualDesktops) Release() {
	if v != nil && v.mgr != nil {
		v.mgr.Release()
		v.mgr = nil
	}
}
