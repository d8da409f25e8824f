package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sarchlab/snapsim/snap"
)

// Environment variables read by LoadEnv.
const (
	EnvMemCapacity = "SNAPSIM_MEM_CAPACITY"
	EnvTraceDB     = "SNAPSIM_TRACE_DB"
	EnvLogLevel    = "SNAPSIM_LOG_LEVEL"
)

// Env holds the settings taken from the environment.
type Env struct {
	MemCapacity uint64
	TraceDB     string
	LogLevel    slog.Level
}

// LoadEnv loads the given .env files, if they exist, and reads the
// settings. Variables already set in the process environment win.
func LoadEnv(files ...string) (Env, error) {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}

		if err := godotenv.Load(f); err != nil {
			return Env{}, err
		}
	}

	env := Env{
		MemCapacity: DefaultMemoryCapacity,
		TraceDB:     os.Getenv(EnvTraceDB),
		LogLevel:    slog.LevelWarn,
	}

	if v := os.Getenv(EnvMemCapacity); v != "" {
		capacity, err := strconv.ParseUint(v, 0, 64)
		if err != nil {
			return Env{}, err
		}

		env.MemCapacity = capacity
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		level, err := ParseLogLevel(v)
		if err != nil {
			return Env{}, err
		}

		env.LogLevel = level
	}

	return env, nil
}

// ParseLogLevel accepts the slog level names plus "trace".
func ParseLogLevel(name string) (slog.Level, error) {
	if strings.EqualFold(name, "trace") {
		return snap.LevelTrace, nil
	}

	var level slog.Level
	err := level.UnmarshalText([]byte(name))

	return level, err
}
