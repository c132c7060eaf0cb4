package mylog

import (
	"os"
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat/go-file-rotatelogs"
	"github.com/pkg/errors"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
)

const (
	logFileName      = "vaultd.log"
	rotationInterval = 24 * time.Hour
)

// NewFileRotateHooker writes every entry to path/vaultd.log.<date>, rotated daily.
// Files older than age days are removed; age 0 keeps 7 days.
func NewFileRotateHooker(path string, age uint32) (logrus.Hook, error) {
	if age == 0 {
		age = 7
	}
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, errors.Wrapf(err, "create log dir %s", path)
	}
	base := filepath.Join(path, logFileName)
	writer, err := rotatelogs.New(
		base+".%Y%m%d",
		rotatelogs.WithLinkName(base),
		rotatelogs.WithMaxAge(time.Duration(age)*24*time.Hour),
		rotatelogs.WithRotationTime(rotationInterval),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create rotate logs")
	}
	return lfshook.NewHook(lfshook.WriterMap{
		logrus.DebugLevel: writer,
		logrus.InfoLevel:  writer,
		logrus.WarnLevel:  writer,
		logrus.ErrorLevel: writer,
		logrus.FatalLevel: writer,
		logrus.PanicLevel: writer,
	}, &logrus.JSONFormatter{}), nil
}
