package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Init configures the standard logrus logger. Console output is text; when
// file is set, JSON records are also written there with rotation.
// Returns a cleanup function to close the log file.
func Init(level, file string) (func(), error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)

	if file == "" {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		logrus.SetOutput(os.Stdout)
		return func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return nil, err
	}

	// lumberjack handles log rotation
	lj := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10, // 10MB
		MaxBackups: 3,
		LocalTime:  true,
	}

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(io.MultiWriter(os.Stdout, lj))

	cleanup := func() {
		if err := lj.Close(); err != nil {
			logrus.WithError(err).Error("Failed to close log file")
		}
	}
	return cleanup, nil
}
