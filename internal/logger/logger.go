// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
)

var (
	// nullLogger is a logger that discards all log messages.
	nullLogger = &instance{log: hclog.NewNullLogger()}
)

//go:generate ${TOOLS_BIN}/stringer -type=Level
type Level int

func LevelFromString(level string) Level {
	switch strings.ToUpper(level) {
	case "TRACE":
		return TRACE
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

func (l Level) convertedLevel() hclog.Level {
	switch l {
	case TRACE:
		return hclog.Trace
	case DEBUG:
		return hclog.Debug
	case INFO:
		return hclog.Info
	case WARN:
		return hclog.Warn
	case ERROR:
		return hclog.Error
	default:
		return hclog.Info
	}
}

const (
	ERROR Level = iota
	WARN
	INFO
	DEBUG
	TRACE
)

// Logger describes the interface that must be implemented by all loggers
type Logger interface {
	// WithName returns a new Logger instance with the specified name.
	WithName(name string) Logger

	// SetLevel updates the logger level.
	SetLevel(level Level)

	// AddSink attaches an additional output to the logger and to every logger derived from it.
	AddSink(writer io.Writer)

	// Trace emit a message and key/value pairs at the TRACE level.
	Trace(msg string, args ...interface{})

	// Debug emit a message and key/value pairs at the DEBUG level.
	Debug(msg string, args ...interface{})

	// Info emit a message and key/value pairs at the INFO level.
	Info(msg string, args ...interface{})

	// Warn emit a message and key/value pairs at the WARN level.
	Warn(msg string, args ...interface{})

	// Error emit a message and key/value pairs at the ERROR level.
	Error(msg string, args ...interface{})
}

// Make sure that intLogger is a Logger.
var _ Logger = &instance{}

// instance is a Logger implementation.
type instance struct {
	log     hclog.Logger
	outputs *fanout
}

// NewLogger creates a new logger instance writing JSON records to writer.
// Every record carries the caller location so that file sinks can report the line number.
func NewLogger(writer io.Writer) Logger {
	outputs := &fanout{writers: []io.Writer{writer}}
	return &instance{
		log: hclog.New(&hclog.LoggerOptions{
			JSONFormat:               true,
			Output:                   outputs,
			TimeFn:                   time.Now,
			TimeFormat:               time.RFC3339Nano,
			Level:                    INFO.convertedLevel(),
			IncludeLocation:          true,
			AdditionalLocationOffset: 1,
		}),
		outputs: outputs,
	}
}

func (i instance) WithName(name string) Logger {
	return &instance{
		log:     i.log.ResetNamed(name),
		outputs: i.outputs,
	}
}

func (i instance) SetLevel(level Level) {
	i.log.SetLevel(level.convertedLevel())
}

func (i instance) AddSink(writer io.Writer) {
	if i.outputs == nil || writer == nil {
		return
	}

	i.outputs.add(writer)
}

func (i instance) Trace(msg string, args ...interface{}) {
	i.log.Trace(msg, args...)
}

func (i instance) Debug(msg string, args ...interface{}) {
	i.log.Debug(msg, args...)
}

func (i instance) Info(msg string, args ...interface{}) {
	i.log.Info(msg, args...)
}

func (i instance) Warn(msg string, args ...interface{}) {
	i.log.Warn(msg, args...)
}

func (i instance) Error(msg string, args ...interface{}) {
	i.log.Error(msg, args...)
}

// fanout duplicates every record to all the registered writers.
type fanout struct {
	lock    sync.Mutex
	writers []io.Writer
}

func (f *fanout) add(writer io.Writer) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.writers = append(f.writers, writer)
}

func (f *fanout) Write(p []byte) (int, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	for _, writer := range f.writers {
		if _, err := writer.Write(p); err != nil {
			return 0, err
		}
	}

	return len(p), nil
}
