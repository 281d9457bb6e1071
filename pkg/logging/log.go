package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var defaultLog *logrus.Logger

func new() *(logrus.Logger) {
	var log = logrus.New()
	// stdout is reserved for the metrics blob when --json is used
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.InfoLevel)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors:   false,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	return log
}

// init - instance of logrus with our desired format
func init() {
	defaultLog = new()
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		if err := SetLevelString(lvl); err != nil {
			defaultLog.Warnf("Invalid LOG_LEVEL %q, defaulting to info", lvl)
		}
	}
}

// SetDebug - Switch to DEBUG level
func SetDebug() {
	SetLevel(defaultLog, logrus.DebugLevel)
}

// SetError - Only report errors, used when stdout carries JSON
func SetError() {
	SetLevel(defaultLog, logrus.ErrorLevel)
}

// SetLevel - Provided logger, set the log level
func SetLevel(logger *logrus.Logger, level logrus.Level) {
	logger.SetLevel(level)
}

// SetLevelString parses a level name such as "debug" and applies it.
func SetLevelString(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	SetLevel(defaultLog, lvl)
	return nil
}

// SetOutput redirects the default logger.
func SetOutput(w io.Writer) {
	defaultLog.SetOutput(w)
}

// WithFields - Entry carrying structured fields
func WithFields(fields logrus.Fields) *logrus.Entry {
	return defaultLog.WithFields(fields)
}

// Debug - Debug message
func Debug(args ...interface{}) {
	defaultLog.Debug(args...)
}

// Debugf - Debug message
func Debugf(format string, args ...interface{}) {
	defaultLog.Debugf(format, args...)
}

// Error - Error message
func Error(args ...interface{}) {
	defaultLog.Error(args...)
}

// Errorf - Error message
func Errorf(format string, args ...interface{}) {
	defaultLog.Errorf(format, args...)
}

// Info - Info Message
func Info(args ...interface{}) {
	defaultLog.Info(args...)
}

// Infof - Info Message
func Infof(format string, args ...interface{}) {
	defaultLog.Infof(format, args...)
}

// Warn - Warn Message
func Warn(args ...interface{}) {
	defaultLog.Warn(args...)
}

// Warnf - Warn Message
func Warnf(format string, args ...interface{}) {
	defaultLog.Warnf(format, args...)
}
