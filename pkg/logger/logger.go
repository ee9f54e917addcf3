package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity of a log entry
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string onto a LogLevel, defaulting to INFO
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return DEBUG
	case "warn":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

// LogEntry represents a structured log entry
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Context   map[string]interface{} `json:"context,omitempty"`
}

// Logger writes leveled diagnostics to the console and optionally to a
// JSON-lines file under the tool's config directory.
type Logger struct {
	mu            sync.Mutex
	currentLevel  LogLevel
	logFile       *os.File
	logDir        string
	enableConsole bool
	enableFile    bool
}

var (
	instance *Logger
	once     sync.Once
)

// GetInstance returns the singleton logger instance
func GetInstance() *Logger {
	once.Do(func() {
		instance = &Logger{
			currentLevel:  INFO,
			enableConsole: true,
		}
	})
	return instance
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.currentLevel = level
}

// EnableConsoleLogging enables or disables console output
func (l *Logger) EnableConsoleLogging(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enableConsole = enable
}

// EnableFileLogging enables the JSON-lines file sink in dir
func (l *Logger) EnableFileLogging(dir string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("s3pull_%s.log", time.Now().Format("2006-01-02")))
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	if l.logFile != nil {
		l.logFile.Close()
	}
	l.logDir = dir
	l.logFile = file
	l.enableFile = true
	return nil
}

// Close closes the file sink if one is open
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.logFile != nil {
		l.logFile.Close()
		l.logFile = nil
		l.enableFile = false
	}
}

// Log adds a new log entry
func (l *Logger) Log(level LogLevel, message string, context map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.currentLevel {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     level.String(),
		Message:   message,
		Context:   context,
	}

	if l.enableConsole {
		l.writeToConsole(entry)
	}
	if l.enableFile && l.logFile != nil {
		l.writeToFile(entry)
	}
}

// writeToConsole writes a log entry to stderr
func (l *Logger) writeToConsole(entry LogEntry) {
	var color string
	switch entry.Level {
	case "DEBUG":
		color = "\033[36m" // Cyan
	case "INFO":
		color = "\033[32m" // Green
	case "WARN":
		color = "\033[33m" // Yellow
	case "ERROR":
		color = "\033[31m" // Red
	default:
		color = "\033[0m" // Reset
	}

	msg := entry.Message
	if len(entry.Context) > 0 {
		if ctx, err := json.Marshal(entry.Context); err == nil {
			msg = fmt.Sprintf("%s %s", msg, ctx)
		}
	}

	fmt.Fprintf(os.Stderr, "%s[%s]%s %s %s\n",
		color,
		entry.Level,
		"\033[0m",
		entry.Timestamp.Format("2006-01-02 15:04:05"),
		msg,
	)
}

// writeToFile writes a log entry to the file sink
func (l *Logger) writeToFile(entry LogEntry) {
	jsonData, err := json.Marshal(entry)
	if err != nil {
		return
	}
	jsonData = append(jsonData, '\n')
	if _, err := l.logFile.Write(jsonData); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write to log file: %v\n", err)
	}
}

// Debug logs a debug message
func Debug(message string, context ...map[string]interface{}) {
	GetInstance().Log(DEBUG, message, firstContext(context))
}

// Info logs an info message
func Info(message string, context ...map[string]interface{}) {
	GetInstance().Log(INFO, message, firstContext(context))
}

// Warn logs a warning message
func Warn(message string, context ...map[string]interface{}) {
	GetInstance().Log(WARN, message, firstContext(context))
}

// Error logs an error message
func Error(message string, context ...map[string]interface{}) {
	GetInstance().Log(ERROR, message, firstContext(context))
}

func firstContext(context []map[string]interface{}) map[string]interface{} {
	if len(context) > 0 {
		return context[0]
	}
	return nil
}
