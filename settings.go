package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

const currentVersion = "1.0.2"

var (
	dataDir      string
	settingsFile string
	logFile      string
)

func resolveDataPaths() {
	appData := os.Getenv("APPDATA")
	if appData == "" {
		appData = "."
	}
	dataDir = filepath.Join(appData, "TaskbarPlusPlus")
	os.MkdirAll(dataDir, 0755)
	settingsFile = filepath.Join(dataDir, "settings.json")
	logFile = filepath.Join(dataDir, "debug.log")
}

type Settings struct {
	Edge             string `json:"edge"`
	Compact          bool   `json:"compact"`
	Theme            string `json:"theme"`
	RefreshInterval  int    `json:"refreshInterval"` // seconds
	StartWithWindows bool   `json:"startWithWindows"`
}

var (
	settings Settings
	fileMu   sync.Mutex
)

// DockEdge maps the persisted edge name onto the enum; anything
// unrecognized falls back to top.
func (s Settings) DockEdge() DockEdge {
	if s.Edge == "left" {
		return EdgeLeft
	}
	return EdgeTop
}

func loadSettings() {
	settings = Settings{
		Edge:             "top",
		Compact:          false,
		Theme:            barThemes[0],
		RefreshInterval:  2,
		StartWithWindows: false,
	}
	data, err := os.ReadFile(settingsFile)
	if err != nil {
		return
	}
	json.Unmarshal(data, &settings)
	if settings.RefreshInterval < 1 {
		settings.RefreshInterval = 2
	}
}

func saveSettings() {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return
	}
	fileMu.Lock()
	_ = os.WriteFile(settingsFile, data, 0644)
	fileMu.Unlock()
}
