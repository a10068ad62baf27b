//go:build windows
// +build windows

package main

import (
	"sync/atomic"
	"syscall"
	"time"

	"github.com/lxn/win"
)

// Event-driven refresh: windows opening, closing, showing, hiding,
// retitling or taking the foreground all plausibly change the eligible
// set, so each posts a (debounced) refresh to the control thread. The
// periodic tick remains as a safety net for anything these hooks miss.

var (
	eventTargetHwnd   win.HWND
	lastRefreshPostNs int64

	winEventCallback = syscall.NewCallback(func(hHook, event, hwnd, idObject, idChild, idEventThread, dwmsEventTime uintptr) uintptr {
		if int32(idObject) != OBJID_WINDOW || int32(idChild) != 0 {
			return 0
		}
		if win.HWND(hwnd) == eventTargetHwnd {
			return 0
		}
		requestRefresh()
		return 0
	})

	winEventHooks []uintptr
)

// requestRefresh posts WM_APP_REFRESH to the bar window unless one was
// posted within the debounce window. The handler runs enumeration on
// the control thread.
func requestRefresh() {
	const debounce = int64(300 * time.Millisecond)
	now := time.Now().UnixNano()
	last := atomic.LoadInt64(&lastRefreshPostNs)
	if now-last < debounce {
		return
	}
	if !atomic.CompareAndSwapInt64(&lastRefreshPostNs, last, now) {
		return
	}
	if eventTargetHwnd != 0 {
		procPostMessageW.Call(uintptr(eventTargetHwnd), WM_APP_REFRESH, 0, 0)
	}
}

func installWinEventHooks(bar WindowHandle) {
	eventTargetHwnd = win.HWND(bar)
	ranges := [][2]uintptr{
		{EVENT_SYSTEM_FOREGROUND, EVENT_SYSTEM_FOREGROUND},
		{EVENT_OBJECT_CREATE, EVENT_OBJECT_HIDE},
		{EVENT_OBJECT_NAMECHANGE, EVENT_OBJECT_NAMECHANGE},
	}
	for _, r := range ranges {
		h, _, _ := procSetWinEventHook.Call(r[0], r[1], 0, winEventCallback, 0, 0, WINEVENT_OUTOFCONTEXT)
		if h == 0 {
			logf("[EVENTS] SetWinEventHook failed for range 0x%X-0x%X", r[0], r[1])
			continue
		}
		winEventHooks = append(winEventHooks, h)
	}
	logf("[EVENTS] %d win-event hooks installed", len(winEventHooks))
}

// removeWinEventHooks unhooks everything installed. Best effort,
// called during shutdown.
func removeWinEventHooks() {
	for _, h := range winEventHooks {
		procUnhookWinEvent.Call(h)
	}
	winEventHooks = nil
}

// startTickers runs the periodic triggers: the enumeration safety net
// and the icon reap cadence. Both only post messages; the work happens
// on the control thread.
func startTickers(bar WindowHandle, refreshEvery time.Duration) {
	go func() {
		t := time.NewTicker(refreshEvery)
		defer t.Stop()
		for range t.C {
			procPostMessageW.Call(uintptr(bar), WM_APP_REFRESH, 0, 0)
		}
	}()
	go func() {
		t := time.NewTicker(1500 * time.Millisecond)
		defer t.Stop()
		for range t.C {
			procPostMessageW.Call(uintptr(bar), WM_APP_ICON_REAP, 0, 0)
		}
	}()
}
