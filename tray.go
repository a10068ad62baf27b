//go:build windows
// +build windows

package main

import (
	"runtime"
	"syscall"
	"unsafe"

	"github.com/lxn/win"
)

const (
	WM_APP_TRAY_MSG = WM_APP + 10

	ID_TOGGLE_EDGE  = 1001
	ID_TOGGLE_SIZE  = 1002
	ID_CYCLE_THEME  = 1003
	ID_REFRESH      = 1004
	ID_RUN_AT_LOGIN = 1005
	ID_QUIT         = 1006
)

var (
	trayHwnd       win.HWND
	nid            win.NOTIFYICONDATA
	taskbarCreated = win.RegisterWindowMessage(syscall.StringToUTF16Ptr("TaskbarCreated"))
)

// startTray runs the tray icon on its own locked thread with its own
// hidden window and message loop. Menu commands are marshalled to the
// control thread through barInvoke; nothing here touches bar state
// directly.
func startTray(invoke func(func()), ctrl *dockBarController, quit func()) {
	defer safeDefer("startTray")
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	hInst := win.GetModuleHandle(nil)
	className, _ := syscall.UTF16PtrFromString("TaskbarPPTrayClass")

	wc := win.WNDCLASSEX{
		CbSize:        uint32(unsafe.Sizeof(win.WNDCLASSEX{})),
		LpfnWndProc:   syscall.NewCallback(makeTrayProc(invoke, ctrl, quit)),
		HInstance:     hInst,
		LpszClassName: className,
	}
	win.RegisterClassEx(&wc)

	windowName, _ := syscall.UTF16PtrFromString("TaskbarPlusPlus Tray")
	trayHwnd = win.CreateWindowEx(0, className, windowName, 0, 0, 0, 0, 0, 0, 0, hInst, nil)

	nid = win.NOTIFYICONDATA{}
	nid.CbSize = uint32(unsafe.Sizeof(nid))
	nid.HWnd = trayHwnd
	nid.UID = 1
	nid.UFlags = win.NIF_ICON | win.NIF_MESSAGE | win.NIF_TIP
	nid.UCallbackMessage = WM_APP_TRAY_MSG
	nid.HIcon = appIcon(hInst)
	tip, _ := syscall.UTF16FromString("TaskbarPlusPlus")
	copy(nid.SzTip[:], tip)

	win.Shell_NotifyIcon(win.NIM_ADD, &nid)

	var msg win.MSG
	for win.GetMessage(&msg, 0, 0, 0) > 0 {
		win.TranslateMessage(&msg)
		win.DispatchMessage(&msg)
	}
}

func appIcon(hInst win.HINSTANCE) win.HICON {
	if ic := win.LoadIcon(hInst, win.MAKEINTRESOURCE(1)); ic != 0 {
		return ic
	}
	return win.LoadIcon(0, win.MAKEINTRESOURCE(win.IDI_APPLICATION))
}

func makeTrayProc(invoke func(func()), ctrl *dockBarController, quit func()) func(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	return func(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
		if msg == taskbarCreated {
			// Explorer restarted; the icon has to be re-added.
			win.Shell_NotifyIcon(win.NIM_ADD, &nid)
			return 0
		}
		switch msg {
		case WM_APP_TRAY_MSG:
			code := uint32(lParam) & 0xFFFF
			if code == win.WM_RBUTTONUP || code == win.WM_CONTEXTMENU {
				showTrayMenu(hwnd, invoke, ctrl, quit)
			}
			return 0
		case win.WM_DESTROY:
			win.PostQuitMessage(0)
			return 0
		}
		return win.DefWindowProc(hwnd, msg, wParam, lParam)
	}
}

func appendMenuItem(hMenu win.HMENU, flags uintptr, id uintptr, text string) {
	item, _ := syscall.UTF16PtrFromString(text)
	procAppendMenuW.Call(uintptr(hMenu), flags, id, uintptr(unsafe.Pointer(item)))
}

func showTrayMenu(hwnd win.HWND, invoke func(func()), ctrl *dockBarController, quit func()) {
	hMenu := win.CreatePopupMenu()
	if hMenu == 0 {
		return
	}

	// Menu labels come from a control-thread snapshot; the settings
	// globals are never read from this thread.
	st := fetchTrayState(invoke)
	appendMenuItem(hMenu, win.MF_STRING, ID_TOGGLE_EDGE, st.edgeLabel())
	appendMenuItem(hMenu, win.MF_STRING, ID_TOGGLE_SIZE, st.sizeLabel())
	appendMenuItem(hMenu, win.MF_STRING, ID_CYCLE_THEME, "Next theme")
	appendMenuItem(hMenu, win.MF_STRING, ID_REFRESH, "Refresh windows")
	appendMenuItem(hMenu, win.MF_SEPARATOR, 0, "")
	startFlags := uintptr(win.MF_STRING)
	if st.startWithWindows {
		startFlags |= win.MF_CHECKED
	}
	appendMenuItem(hMenu, startFlags, ID_RUN_AT_LOGIN, "Start with Windows")
	appendMenuItem(hMenu, win.MF_SEPARATOR, 0, "")
	appendMenuItem(hMenu, win.MF_STRING, ID_QUIT, "Quit")

	var pt win.POINT
	win.GetCursorPos(&pt)
	win.SetForegroundWindow(hwnd)

	cmd, _, _ := procTrackPopupMenu.Call(
		uintptr(hMenu),
		uintptr(win.TPM_RETURNCMD|win.TPM_RIGHTBUTTON),
		uintptr(pt.X),
		uintptr(pt.Y),
		0,
		uintptr(hwnd),
		0,
	)
	procPostMessageW.Call(uintptr(hwnd), 0, 0, 0)
	win.DestroyMenu(hMenu)

	switch cmd {
	case ID_TOGGLE_EDGE:
		invoke(ctrl.ToggleEdge)
	case ID_TOGGLE_SIZE:
		invoke(ctrl.ToggleSize)
	case ID_CYCLE_THEME:
		invoke(ctrl.CycleColorTheme)
	case ID_REFRESH:
		invoke(ctrl.Refresh)
	case ID_RUN_AT_LOGIN:
		invoke(func() {
			settings.StartWithWindows = !settings.StartWithWindows
			saveSettings()
			if settings.StartWithWindows {
				enableStartup()
			} else {
				disableStartup()
			}
		})
	case ID_QUIT:
		quit()
	}
}

func removeTrayIcon() {
	if trayHwnd != 0 {
		win.Shell_NotifyIcon(win.NIM_DELETE, &nid)
	}
}
