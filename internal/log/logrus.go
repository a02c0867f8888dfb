package log

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger = &logrusLogger{entry: logrus.NewEntry(logrus.New())}

type logrusLogger struct {
	entry *logrus.Entry
}

// GetLogger returns the process-wide logger.
func GetLogger() Logger {
	return logger
}

// Init reconfigures the global logger. Safe to call once at startup;
// loggers obtained earlier keep working and pick up the new settings.
func Init(cfg Config) error {
	level, err := logrus.ParseLevel(defaultString(cfg.Level, "info"))
	if err != nil {
		return err
	}

	l := logger.entry.Logger
	l.SetLevel(level)

	switch strings.ToLower(defaultString(cfg.Format, "text")) {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	writers := []io.Writer{os.Stdout}
	if cfg.File.Path != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAgeDays,
			Compress:   cfg.File.Compress,
		})
	}
	l.SetOutput(io.MultiWriter(writers...))
	return nil
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func (l *logrusLogger) Trace(args ...interface{}) { l.entry.Trace(args...) }
func (l *logrusLogger) Tracef(format string, args ...interface{}) {
	l.entry.Tracef(format, args...)
}

func (l *logrusLogger) Debug(args ...interface{}) { l.entry.Debug(args...) }
func (l *logrusLogger) Debugf(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

func (l *logrusLogger) Info(args ...interface{}) { l.entry.Info(args...) }
func (l *logrusLogger) Infof(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

func (l *logrusLogger) Warn(args ...interface{}) { l.entry.Warn(args...) }
func (l *logrusLogger) Warnf(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

func (l *logrusLogger) Error(args ...interface{}) { l.entry.Error(args...) }
func (l *logrusLogger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

func (l *logrusLogger) WithField(field string, value interface{}) Logger {
	return &logrusLogger{entry: l.entry.WithField(field, value)}
}

func (l *logrusLogger) WithFields(fields map[string]interface{}) Logger {
	return &logrusLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *logrusLogger) WithError(err error) Logger {
	return &logrusLogger{entry: l.entry.WithError(err)}
}

func (l *logrusLogger) IsDebugEnabled() bool {
	return l.entry.Logger.IsLevelEnabled(logrus.DebugLevel)
}
