// Package log is the application logger. A TUI owns the terminal, so records
// go to a file. Every call names a category so a log can be grepped per
// subsystem.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
)

// Category tags the subsystem a record belongs to.
type Category string

const (
	CatApp     Category = "app"
	CatConfig  Category = "config"
	CatCatalog Category = "catalog"
	CatAudio   Category = "audio"
	CatPlay    Category = "playback"
	CatUI      Category = "ui"
	CatBus     Category = "bus"
)

var (
	mu      sync.RWMutex
	logger  = slog.New(slog.NewTextHandler(io.Discard, nil))
	closeFn = func() error { return nil }
)

// Init opens path for appending and routes every record there.
// The returned function closes the file.
func Init(path string, debug bool) (func() error, error) {
	if path == "" {
		return func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	SetOutput(f, level)

	mu.Lock()
	closeFn = f.Close
	mu.Unlock()
	return Close, nil
}

// SetOutput replaces the destination. Tests use it with a buffer.
func SetOutput(w io.Writer, level slog.Level) {
	mu.Lock()
	defer mu.Unlock()
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Close closes the file opened by Init, if any.
func Close() error {
	mu.Lock()
	fn := closeFn
	closeFn = func() error { return nil }
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	mu.Unlock()
	return fn()
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debug(cat Category, msg string, kv ...any) {
	current().Debug(msg, append([]any{"cat", string(cat)}, kv...)...)
}

func Info(cat Category, msg string, kv ...any) {
	current().Info(msg, append([]any{"cat", string(cat)}, kv...)...)
}

func Warn(cat Category, msg string, kv ...any) {
	current().Warn(msg, append([]any{"cat", string(cat)}, kv...)...)
}

// ErrorErr logs msg at error level with err attached.
func ErrorErr(cat Category, msg string, err error, kv ...any) {
	current().Error(msg, append([]any{"cat", string(cat), "error", err}, kv...)...)
}

// SafeGo runs fn in a goroutine and logs instead of crashing on panic.
func SafeGo(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				current().Error("goroutine panic", "goroutine", name, "panic", r, "stack", string(debug.Stack()))
			}
		}()
		fn()
	}()
}
