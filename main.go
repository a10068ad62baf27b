//go:build windows
// +build windows

package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/go-ole/go-ole"
	"github.com/jchv/go-webview2"
	"github.com/lxn/win"
)

var (
	barHwnd       win.HWND
	w             webview2.WebView
	serverPort    = "8642"
	barCtrl       *dockBarController
	barDispatcher *messageDispatcher
	barOps        = make(chan func(), 64)
)

// barInvoke queues fn for the control thread and nudges the message
// loop. Everything that mutates bar state from another goroutine (tray
// menu, HTTP handlers) goes through here, which is what keeps the core
// single-threaded.
func barInvoke(fn func()) {
	select {
	case barOps <- fn:
	default:
		go func() { barOps <- fn }()
	}
	if barHwnd != 0 {
		procPostMessageW.Call(uintptr(barHwnd), WM_APP_BAR_DO, 0, 0)
	}
}

func drainBarOps(wParam, lParam uintptr) {
	for {
		select {
		case fn := <-barOps:
			func() {
				start := time.Now()
				defer func() {
					if r := recover(); r != nil {
						logf("[BAR_OP] op recovered: %v\n%s", r, debug.Stack())
					}
					if dur := time.Since(start); dur > 200*time.Millisecond {
						logf("[BAR_OP] long-running op: %s", dur)
					}
				}()
				fn()
			}()
		default:
			return
		}
	}
}

// quitBar is the single exit path: close the controller on the control
// thread, then let the run loop fall out.
func quitBar() {
	barInvoke(func() {
		barCtrl.Close()
		win.PostQuitMessage(0)
	})
}

func barWndProc(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	if barDispatcher != nil && barDispatcher.Dispatch(msg, wParam, lParam) {
		// App-private messages end here; OS messages continue to the
		// original procedure after the handler has run.
		if msg >= WM_APP {
			return 0
		}
	}
	switch msg {
	case win.WM_CLOSE:
		quitBar()
		return 0
	}
	oldProc := win.GetWindowLongPtr(hwnd, win.GWLP_USERDATA)
	return win.CallWindowProc(oldProc, hwnd, msg, wParam, lParam)
}

// styleAsBar strips the frame from the WebView2 host window and marks
// it a tool window so the bar never shows up in its own list or in
// Alt-Tab.
func styleAsBar(hwnd win.HWND) {
	style := win.GetWindowLong(hwnd, win.GWL_STYLE)
	style &^= win.WS_CAPTION | win.WS_THICKFRAME | win.WS_MINIMIZEBOX | win.WS_MAXIMIZEBOX | win.WS_SYSMENU
	style = int32(uint32(style) | win.WS_POPUP)
	win.SetWindowLong(hwnd, win.GWL_STYLE, style)

	ex := win.GetWindowLong(hwnd, win.GWL_EXSTYLE)
	ex |= win.WS_EX_TOOLWINDOW
	win.SetWindowLong(hwnd, win.GWL_EXSTYLE, ex)

	win.SetWindowPos(hwnd, 0, 0, 0, 0, 0,
		win.SWP_NOMOVE|win.SWP_NOSIZE|win.SWP_NOZORDER|win.SWP_FRAMECHANGED)
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			logf("[FATAL RECOVER] %v\n%s", r, debug.Stack())
		}
	}()

	resolveDataPaths()
	setupLogging()
	loadSettings()

	if settings.StartWithWindows {
		enableStartup()
	}
	if p := os.Getenv("PORT"); p != "" {
		serverPort = p
	}

	if err := ole.CoInitialize(0); err != nil {
		logf("[STARTUP] CoInitialize failed: %v", err)
	}

	shell := newWin32Shell()
	icons := newBarIconStore()
	enum := &windowEnumerator{ins: shell, icons: shell}

	if os.Getenv("TASKBARPP_NO_UI") == "1" {
		logf("[STARTUP] TASKBARPP_NO_UI set; running headless (server only)")
		appbar := newAppBarClient(shell, 0, WM_APP_BAR_POS)
		server := newBarServer(nil, icons)
		barCtrl = newDockBarController(appbar, enum, icons, server.broadcast)
		server.ctrl = barCtrl
		server.loadPlaceholder()
		server.start(serverPort)
		return
	}

	os.Setenv("WEBVIEW2_ADDITIONAL_BROWSER_ARGUMENTS", "--disable-gpu-vsync --disable-extensions --disable-background-networking --disk-cache-size=1")

	logf("[STARTUP] creating WebView2 instance")
	w = webview2.NewWithOptions(webview2.WebViewOptions{
		Debug:     false,
		AutoFocus: false,
		WindowOptions: webview2.WindowOptions{
			Title:  "TaskbarPlusPlus",
			Width:  800,
			Height: barThicknessPx,
			IconId: 0,
		},
	})
	if w == nil {
		logf("[STARTUP] WebView2 returned nil")
		return
	}
	defer w.Destroy()

	barHwnd = win.HWND(w.Window())
	logf("[STARTUP] bar HWND = 0x%X", uintptr(barHwnd))
	styleAsBar(barHwnd)

	appbar := newAppBarClient(shell, WindowHandle(barHwnd), WM_APP_BAR_POS)
	server := newBarServer(nil, icons)
	barCtrl = newDockBarController(appbar, enum, icons, server.broadcast)
	server.ctrl = barCtrl
	server.invoke = barInvoke
	server.activate = activateWindow
	server.startMenu = openStartMenu
	server.quit = quitBar
	server.loadPlaceholder()

	barCtrl.OnClose(removeWinEventHooks)
	barCtrl.OnClose(removeTrayIcon)
	barCtrl.OnClose(func() {
		if shell.desktops != nil {
			shell.desktops.Release()
		}
	})

	barDispatcher = buildDispatcher(barCtrl)
	barDispatcher.Handle(WM_APP_BAR_DO, drainBarOps)
	barDispatcher.Handle(WM_APP_ICON_REAP, func(wParam, lParam uintptr) { drainIconReap() })

	oldProc := win.SetWindowLongPtr(barHwnd, win.GWLP_WNDPROC, syscall.NewCallback(barWndProc))
	win.SetWindowLongPtr(barHwnd, win.GWLP_USERDATA, oldProc)

	logDisplayEnvironment(WindowHandle(barHwnd))

	go server.start(serverPort)
	go startTray(barInvoke, barCtrl, quitBar)

	barCtrl.Start()
	installWinEventHooks(WindowHandle(barHwnd))
	startTickers(WindowHandle(barHwnd), time.Duration(settings.RefreshInterval)*time.Second)

	w.Navigate(fmt.Sprintf("http://127.0.0.1:%s", serverPort))

	logf("[STARTUP] entering run loop")
	w.Run()
	logf("[STARTUP] run loop exited")

	// Covers exits that bypassed quitBar; Close is idempotent.
	barCtrl.Close()
}
