package infrastructure

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"clima.app/internal/ports"
)

// FileLoggerAdapter appends structured JSON lines to a file.
// The file stays open until Close.
type FileLoggerAdapter struct {
	filePath string
	mutex    sync.Mutex
	file     io.WriteCloser
	now      func() time.Time
}

// NewFileLoggerAdapter creates the log directory and opens logPath for appending
func NewFileLoggerAdapter(logPath string) (*FileLoggerAdapter, error) {
	if logPath == "" {
		return nil, fmt.Errorf("log file path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &FileLoggerAdapter{
		filePath: logPath,
		file:     file,
		now:      time.Now,
	}, nil
}

// Path returns the file the adapter writes to
func (f *FileLoggerAdapter) Path() string {
	return f.filePath
}

// Debug logs a debug message to file
func (f *FileLoggerAdapter) Debug(msg string, fields ...ports.Field) {
	f.writeLogEntry("DEBUG", msg, fields...)
}

// Info logs an info message to file
func (f *FileLoggerAdapter) Info(msg string, fields ...ports.Field) {
	f.writeLogEntry("INFO", msg, fields...)
}

// Warn logs a warning message to file
func (f *FileLoggerAdapter) Warn(msg string, fields ...ports.Field) {
	f.writeLogEntry("WARN", msg, fields...)
}

// Error logs an error message to file
func (f *FileLoggerAdapter) Error(msg string, fields ...ports.Field) {
	f.writeLogEntry("ERROR", msg, fields...)
}

// Close closes the file. Later entries are dropped.
func (f *FileLoggerAdapter) Close() error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}

func (f *FileLoggerAdapter) writeLogEntry(level, msg string, fields ...ports.Field) {
	logEntry := map[string]interface{}{
		"timestamp": f.now().Format(time.RFC3339),
		"level":     level,
		"message":   msg,
	}
	for _, field := range fields {
		value := field.Value
		if err, ok := value.(error); ok {
			value = err.Error()
		}
		logEntry[field.Key] = value
	}

	jsonData, err := json.Marshal(logEntry)
	if err != nil {
		jsonData = []byte(fmt.Sprintf(`{"level":"ERROR","message":"failed to marshal log entry: %v"}`, err))
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.file == nil {
		return
	}
	if _, err := f.file.Write(append(jsonData, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write log entry: %v\n", err)
	}
}
