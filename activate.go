//go:build windows
// +build windows

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
	"github.com/lxn/win"
)

// activateWindow restores a minimized window and brings it to the
// foreground. This is the full extent of window lifecycle management
// the bar performs.
func activateWindow(h WindowHandle) {
	hwnd := win.HWND(h)
	if win.IsIconic(hwnd) {
		win.ShowWindow(hwnd, win.SW_RESTORE)
	} else {
		win.ShowWindow(hwnd, win.SW_SHOW)
	}
	win.SetForegroundWindow(hwnd)
}

// openStartMenu simulates Ctrl+Esc.
func openStartMenu() {
	procKeybdEvent.Call(VK_CONTROL, 0, 0, 0)
	procKeybdEvent.Call(VK_ESCAPE, 0, 0, 0)
	procKeybdEvent.Call(VK_ESCAPE, 0, KEYEVENTF_KEYUP, 0)
	procKeybdEvent.Call(VK_CONTROL, 0, KEYEVENTF_KEYUP, 0)
}

func startupShortcutPath(appName string) string {
	appData := os.Getenv("APPDATA")
	return filepath.Join(appData, "Microsoft", "Windows", "Start Menu", "Programs", "Startup", appName+".lnk")
}

func createStartupShortcut(appName, exePath string) error {
	linkPath := startupShortcutPath(appName)
	if err := os.MkdirAll(filepath.Dir(linkPath), 0755); err != nil {
		return err
	}

	shellObj, err := oleutil.CreateObject("WScript.Shell")
	if err != nil {
		return fmt.Errorf("CreateObject(WScript.Shell) failed: %v", err)
	}
	defer shellObj.Release()

	shellDisp, err := shellObj.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return fmt.Errorf("QueryInterface IDispatch failed: %v", err)
	}
	defer shellDisp.Release()

	scV, err := oleutil.CallMethod(shellDisp, "CreateShortcut", linkPath)
	if err != nil {
		return fmt.Errorf("CreateShortcut failed: %v", err)
	}
	sc := scV.ToIDispatch()
	defer sc.Release()

	if _, err = oleutil.PutProperty(sc, "TargetPath", exePath); err != nil {
		return fmt.Errorf("Set TargetPath failed: %v", err)
	}
	_, _ = oleutil.PutProperty(sc, "Description", appName)
	if _, err = oleutil.CallMethod(sc, "Save"); err != nil {
		return fmt.Errorf("Save shortcut failed: %v", err)
	}
	return nil
}

func removeStartupShortcut(appName string) error {
	return os.Remove(startupShortcutPath(appName))
}

func enableStartup() {
	exePath, err := os.Executable()
	if err != nil {
		return
	}
	if err := createStartupShortcut("TaskbarPlusPlus", exePath); err != nil {
		logf("[STARTUP] shortcut creation failed: %v", err)
	}
}

func disableStartup() {
	_ = removeStartupShortcut("TaskbarPlusPlus")
}
