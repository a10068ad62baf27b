package main

import (
	"log"
	"os"
	"path/filepath"
)

var logger *log.Logger

func setupLogging() {
	_ = os.MkdirAll(filepath.Dir(logFile), 0755)
	logFileHandle, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		logFileHandle, err = os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			log.Printf("Failed to open log file: %v", err)
			return
		}
	}
	log.SetOutput(logFileHandle)
	log.SetFlags(log.LstdFlags)
	logger = log.New(logFileHandle, "", log.LstdFlags)
	logger.Printf("=== TaskbarPlusPlus v%s Started ===", currentVersion)
	logger.Printf("Log file location: %s", logFile)
}

func logf(format string, args ...interface{}) {
	if logger != nil {
		logger.Printf(format, args...)
	}
}

func safeDefer(where string) {
	if r := recover(); r != nil {
		logf("[RECOVER] %s: %v", where, r)
	}
}
