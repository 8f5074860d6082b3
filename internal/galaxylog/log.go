// Package galaxylog is the ambient logging wrapper the rest of the module
// calls through. gopper's own packages (host/mcu, host/cmd/gopper-host) log
// with plain fmt.Printf/log calls rather than a structured logging library,
// so this keeps that texture and adds only one thing on top: level
// filtering from an environment variable.
package galaxylog

import (
	"log"
	"os"
	"strings"
)

// Level orders the verbosity of log output, least to most severe.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

// envVar is the environment variable that controls the log level/filter.
const envVar = "GALAXY_LOG"

var current = levelFromEnv()

func levelFromEnv() Level {
	switch strings.ToLower(os.Getenv(envVar)) {
	case "trace":
		return LevelTrace
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func logf(level Level, format string, args ...any) {
	if level < current {
		return
	}
	log.Printf(prefix(level)+format, args...)
}

func prefix(level Level) string {
	switch level {
	case LevelTrace:
		return "TRACE "
	case LevelDebug:
		return "DEBUG "
	case LevelWarn:
		return "WARN "
	case LevelError:
		return "ERROR "
	default:
		return "INFO "
	}
}

func Tracef(format string, args ...any) { logf(LevelTrace, format, args...) }
func Debugf(format string, args ...any) { logf(LevelDebug, format, args...) }
func Infof(format string, args ...any)  { logf(LevelInfo, format, args...) }
func Warnf(format string, args ...any)  { logf(LevelWarn, format, args...) }
func Errorf(format string, args ...any) { logf(LevelError, format, args...) }
