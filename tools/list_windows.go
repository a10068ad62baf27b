//go:build windows

// Diagnostic: dump every top-level window with its filter verdicts.
// Run with: go run tools/list_windows.go
package main

import (
	"fmt"
	"syscall"
	"unsafe"
)

var (
	user32                    = syscall.NewLazyDLL("user32.dll")
	dwmapi                    = syscall.NewLazyDLL("dwmapi.dll")
	procEnumWindows           = user32.NewProc("EnumWindows")
	procIsWindowVisible       = user32.NewProc("IsWindowVisible")
	procGetWindow             = user32.NewProc("GetWindow")
	procGetWindowLongPtrW     = user32.NewProc("GetWindowLongPtrW")
	procGetWindowTextW        = user32.NewProc("GetWindowTextW")
	procDwmGetWindowAttribute = dwmapi.NewProc("DwmGetWindowAttribute")
)

const (
	gwOwner        = 4
	gwlExStyle     = 0xFFFFFFEC // -20
	wsExToolWindow = 0x00000080
	dwmwaCloaked   = 14
)

func title(hwnd uintptr) string {
	var buf [256]uint16
	n, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return syscall.UTF16ToString(buf[:n])
}

func cloaked(hwnd uintptr) bool {
	var value uint32
	ret, _, _ := procDwmGetWindowAttribute.Call(hwnd, dwmwaCloaked,
		uintptr(unsafe.Pointer(&value)), unsafe.Sizeof(value))
	return ret == 0 && value != 0
}

func main() {
	fmt.Printf("%-10s %-4s %-6s %-5s %-7s  %s\n", "HWND", "vis", "owned", "tool", "cloaked", "title")
	cb := syscall.NewCallback(func(hwnd, lparam uintptr) uintptr {
		visible, _, _ := procIsWindowVisible.Call(hwnd)
		owner, _, _ := procGetWindow.Call(hwnd, gwOwner)
		exStyle, _, _ := procGetWindowLongPtrW.Call(hwnd, gwlExStyle)
		tool := exStyle&wsExToolWindow != 0
		t := title(hwnd)

		eligible := visible != 0 && owner == 0 && !tool && !cloaked(hwnd) && t != ""
		marker := "  "
		if eligible {
			marker = "* "
		}
		fmt.Printf("%s0x%08x %-4v %-6v %-5v %-7v  %q\n",
			marker, hwnd, visible != 0, owner != 0, tool, cloaked(hwnd), t)
		return 1
	})
	procEnumWindows.Call(cb, 0)
}
