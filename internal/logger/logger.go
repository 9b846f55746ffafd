package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Level  string
	Format string
	// File enables a rotated log file next to stdout when set.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type Logger struct {
	l *logrus.Logger
}

func New(l *logrus.Logger) *Logger {
	return &Logger{l: l}
}

func NewFromConfig(conf Config) (*Logger, error) {
	l := logrus.New()

	level, err := logrus.ParseLevel(conf.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", conf.Level, err)
	}

	l.SetLevel(level)

	if conf.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	var out io.Writer = os.Stdout

	if conf.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   conf.File,
			MaxSize:    conf.MaxSizeMB,
			MaxBackups: conf.MaxBackups,
			MaxAge:     conf.MaxAgeDays,
			Compress:   true,
		})
	}

	l.SetOutput(out)

	return New(l), nil
}

// Writer exposes the logger for the standard library's *log.Logger. Each
// writer is served by its own goroutine until the caller closes it.
func (l *Logger) Writer() *io.PipeWriter {
	return l.l.WriterLevel(logrus.ErrorLevel)
}

func (l *Logger) LogErrorf(format string, v ...any) {
	l.l.Errorf(format, v...)
}

func (l *Logger) LogWarnf(format string, v ...any) {
	l.l.Warnf(format, v...)
}

func (l *Logger) LogInfo(format string, v ...any) {
	l.l.Infof(format, v...)
}

// Discard drops every entry. Meant for tests.
func Discard() *Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return New(l)
}
