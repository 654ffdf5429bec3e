// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultDirectory is the directory that receives the per-run log files.
	DefaultDirectory = "logs"

	fileNameLayout  = "01_02_2006_15_04_05"
	fileExtension   = ".log"
	lineTimeLayout  = "2006-01-02 15:04:05,000"
	rootLoggerName  = "root"
	unknownLocation = "0"
)

// timestampLayouts lists the formats the JSON handler may use for the @timestamp field.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000000Z07:00",
	"2006-01-02T15:04:05.000Z0700",
}

// FileName returns the name of the log file for a process started at startTime.
func FileName(startTime time.Time) string {
	return startTime.Format(fileNameLayout) + fileExtension
}

// OpenFile creates dir when missing and opens, in append mode, the log file named
// after startTime inside it.
func OpenFile(dir string, startTime time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, FileName(startTime))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	return file, nil
}

// lineWriter turns the JSON records produced by the Logger into plain text lines.
type lineWriter struct {
	out io.Writer

	lock    sync.Mutex
	pending []byte
}

// NewLineWriter returns a writer that renders every JSON record written to it as
//
//	[ <timestamp> ] <line> <logger-name> - <LEVEL> - <message> key=value...
//
// and forwards it to out. Input that is not a JSON record is forwarded untouched.
func NewLineWriter(out io.Writer) io.Writer {
	return &lineWriter{out: out}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	w.pending = append(w.pending, p...)
	for {
		index := bytes.IndexByte(w.pending, '\n')
		if index < 0 {
			break
		}

		line := formatRecord(w.pending[:index])
		w.pending = w.pending[index+1:]
		if _, err := io.WriteString(w.out, line+"\n"); err != nil {
			return 0, err
		}
	}

	if len(w.pending) == 0 {
		w.pending = nil
	}

	return len(p), nil
}

// formatRecord renders a single JSON record in the log file format.
func formatRecord(raw []byte) string {
	record := make(map[string]any)
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&record); err != nil {
		return string(raw)
	}

	name := rootLoggerName
	if module, ok := record["@module"].(string); ok && module != "" {
		name = module
	}

	message, _ := record["@message"].(string)
	level, _ := record["@level"].(string)

	builder := new(strings.Builder)
	fmt.Fprintf(builder, "[ %s ] %s %s - %s - %s",
		formatTimestamp(record["@timestamp"]),
		callerLine(record["@caller"]),
		name,
		strings.ToUpper(level),
		message,
	)

	keys := make([]string, 0, len(record))
	for key := range record {
		if !strings.HasPrefix(key, "@") {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	for _, key := range keys {
		builder.WriteString(" " + key + "=" + formatValue(record[key]))
	}

	return builder.String()
}

func formatTimestamp(value any) string {
	timestamp, ok := value.(string)
	if !ok {
		return ""
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, timestamp); err == nil {
			return parsed.Format(lineTimeLayout)
		}
	}

	return timestamp
}

// callerLine extracts the line number from a "file:line" location.
func callerLine(value any) string {
	caller, ok := value.(string)
	if !ok {
		return unknownLocation
	}

	index := strings.LastIndexByte(caller, ':')
	if index < 0 || index == len(caller)-1 {
		return unknownLocation
	}

	return caller[index+1:]
}

func formatValue(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case json.Number:
		return typed.String()
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprint(typed)
		}
		return string(encoded)
	}
}
