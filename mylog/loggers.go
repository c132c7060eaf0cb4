package mylog

import (
	"io/ioutil"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// level names accepted in the node config
const (
	PanicLevel = "panic"
	FatalLevel = "fatal"
	ErrorLevel = "error"
	WarnLevel  = "warn"
	InfoLevel  = "info"
	DebugLevel = "debug"
)

// convertLevel maps a level name to a logrus level. Unknown names mean info.
func convertLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case PanicLevel:
		return logrus.PanicLevel
	case FatalLevel:
		return logrus.FatalLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case WarnLevel, "warning":
		return logrus.WarnLevel
	case DebugLevel:
		return logrus.DebugLevel
	}
	return logrus.InfoLevel
}

// Init creates the node logger: colored text on stdout and, unless path is empty,
// JSON lines in a daily rotated file under path.
func Init(path string, level string, age uint32) (*logrus.Logger, error) {
	clog := logrus.New()
	clog.Out = os.Stdout
	clog.Level = convertLevel(level)
	clog.Formatter = &logrus.TextFormatter{
		ForceColors:     true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	}
	if path == "" {
		return clog, nil
	}
	fileHooker, err := NewFileRotateHooker(path, age)
	if err != nil {
		return nil, err
	}
	clog.Hooks.Add(fileHooker)
	return clog, nil
}

// Discard returns a logger that drops everything, for tests.
func Discard() *logrus.Logger {
	clog := logrus.New()
	clog.Out = ioutil.Discard
	return clog
}
