package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrorLogger appends per-record failures to an errors.log next to the
// output records, so a run's failures survive past the process.
type ErrorLogger struct {
	mu    sync.Mutex
	path  string
	file  *os.File
	count int
}

// NewErrorLogger opens (or creates) the log file for appending.
func NewErrorLogger(path string) (*ErrorLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("could not create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("could not open log file: %w", err)
	}

	return &ErrorLogger{path: path, file: file}, nil
}

// Log records one failed file.
func (l *ErrorLogger) Log(filename, errorMsg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.count++
	line := fmt.Sprintf("%s | %s | %s\n",
		time.Now().Format(time.RFC3339), filename, errorMsg)
	l.file.WriteString(line)
}

// Count returns the number of logged errors.
func (l *ErrorLogger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Close closes the log file.
func (l *ErrorLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}
