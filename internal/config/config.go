// Package config resolves the viewer configuration from the command line,
// optional .env files and environment variables.
package config

import (
	"errors"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/text/unicode/norm"
)

// ErrUsage is returned when the command line does not name exactly one
// document. Its message is shown to the user verbatim.
var ErrUsage = errors.New("Please provide the file name") //nolint:staticcheck // user-facing message

// Defaults.
const (
	DefaultScale    = 3.0
	MaxScale        = 8.0
	DefaultWidth    = 500
	DefaultHeight   = 500
	DefaultLogLevel = slog.LevelWarn
)

// EnvFiles are loaded in order before reading the environment. Missing
// files are ignored and variables already set are not overridden.
var EnvFiles = []string{".env", "docview.env"}

// Config is the resolved viewer configuration.
type Config struct {
	// Path is the document to open.
	Path string

	// Title is the window title: the base name of Path.
	Title string

	// Scale is the rasterization scale (DOCVIEW_SCALE).
	Scale float64

	// Backend names the document source; empty selects by priority
	// (DOCVIEW_BACKEND).
	Backend string

	// CachePages is the page cache capacity; 0 disables it
	// (DOCVIEW_CACHE_PAGES).
	CachePages int

	// LogLevel is the minimum level logged to stderr (DOCVIEW_LOG_LEVEL).
	LogLevel slog.Level

	// Width and Height are the initial window size (DOCVIEW_WIDTH,
	// DOCVIEW_HEIGHT).
	Width, Height int
}

// Load builds a Config from the program arguments, without the program
// name. Exactly one argument is accepted.
func Load(args []string) (Config, error) {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return Config{}, ErrUsage
	}

	for _, f := range EnvFiles {
		_ = godotenv.Load(f)
	}

	path := args[0]
	return Config{
		Path:       path,
		Title:      Title(path),
		Scale:      getEnvFloatIn("DOCVIEW_SCALE", DefaultScale, MaxScale),
		Backend:    strings.ToLower(getEnv("DOCVIEW_BACKEND", "")),
		CachePages: max(0, getEnvInt("DOCVIEW_CACHE_PAGES", 0)),
		LogLevel:   getEnvLevel("DOCVIEW_LOG_LEVEL", DefaultLogLevel),
		Width:      getEnvPositiveInt("DOCVIEW_WIDTH", DefaultWidth),
		Height:     getEnvPositiveInt("DOCVIEW_HEIGHT", DefaultHeight),
	}, nil
}

// Title returns the NFC-normalized base name of path. File systems such as
// APFS hand back decomposed names that some window managers render badly.
func Title(path string) string {
	return norm.NFC.String(filepath.Base(path))
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intVal
}

func getEnvPositiveInt(key string, defaultValue int) int {
	if v := getEnvInt(key, defaultValue); v > 0 {
		return v
	}
	return defaultValue
}

// getEnvFloatIn returns the value of key if it parses as a float in
// (0, upper], and defaultValue otherwise.
func getEnvFloatIn(key string, defaultValue, upper float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f <= 0 || f > upper || math.IsNaN(f) {
		return defaultValue
	}
	return f
}

// getEnvLevel parses debug, info, warn or error, with optional offsets
// such as "debug-2".
func getEnvLevel(key string, defaultValue slog.Level) slog.Level {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return defaultValue
	}
	return level
}
