// Package launchlog writes the launcher's durable event log. The log is an
// append-only text file next to the application package; every checkpoint of
// a launch becomes one timestamped line. The file is never truncated or read
// back by the writer.
package launchlog

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// A Log is an open handle on the event log. It is passed explicitly to the
// launcher's steps; a nil Log drops every write, so callers that could not
// open the file can still run.
type Log struct {
	file   *os.File
	logger *logrus.Logger
}

// Open opens the log file at path in append mode, creating it if needed.
func Open(path string) (*Log, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(file)
	logger.SetFormatter(lineFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	return &Log{file: file, logger: logger}, nil
}

// Infof appends an INFO line.
func (l *Log) Infof(format string, args ...any) {
	if l == nil {
		return
	}
	l.logger.Infof(format, args...)
}

// Warnf appends a WARNING line.
func (l *Log) Warnf(format string, args ...any) {
	if l == nil {
		return
	}
	l.logger.Warnf(format, args...)
}

// Errorf appends an ERROR line.
func (l *Log) Errorf(format string, args ...any) {
	if l == nil {
		return
	}
	l.logger.Errorf(format, args...)
}

// Close releases the underlying file.
func (l *Log) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// lineFormatter renders entries as "[2006-01-02 15:04:05] [LEVEL] message".
type lineFormatter struct{}

func (lineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	level := strings.ToUpper(entry.Level.String())
	line := fmt.Sprintf("[%s] [%s] %s\n", entry.Time.Format("2006-01-02 15:04:05"), level, entry.Message)
	return []byte(line), nil
}
