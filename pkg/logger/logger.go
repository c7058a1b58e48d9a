package logger

import (
	"log"
	"os"
	"strings"

	"lineforge/internal/protocol"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LevelError LogLevel = iota
	LevelInfo
	LevelDebug
)

var currentLevel LogLevel = LevelInfo

// Init initializes the logger with the specified level from environment
func Init() {
	levelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))
	switch levelStr {
	case "debug":
		currentLevel = LevelDebug
	case "info":
		currentLevel = LevelInfo
	case "error":
		currentLevel = LevelError
	default:
		currentLevel = LevelInfo
	}
}

// Debug logs a debug message (only if LOG_LEVEL=debug)
func Debug(format string, v ...interface{}) {
	if currentLevel >= LevelDebug {
		log.Printf("[DEBUG] "+format, v...)
	}
}

// Info logs an info message (if LOG_LEVEL=info or debug)
func Info(format string, v ...interface{}) {
	if currentLevel >= LevelInfo {
		log.Printf("[INFO] "+format, v...)
	}
}

// Error logs an error message (always logged)
func Error(format string, v ...interface{}) {
	log.Printf("[ERROR] "+format, v...)
}

// Frame logs a 2-byte intent frame at debug level, rendering it in
// the protocol's own opcode/verb vocabulary ("write('a')", "verb('B')")
// instead of raw bytes, with note describing why it was worth logging
// (e.g. "unrecognized", "unknown cursor").
func Frame(id uint64, frame [2]byte, note string) {
	if currentLevel < LevelDebug {
		return
	}
	switch frame[0] {
	case protocol.OpWrite:
		log.Printf("[DEBUG] id=%d frame=write(%q): %s", id, frame[1], note)
	case protocol.OpVerb:
		log.Printf("[DEBUG] id=%d frame=verb(%q): %s", id, frame[1], note)
	default:
		log.Printf("[DEBUG] id=%d frame=%q: %s", id, frame[:], note)
	}
}
