package logger

import (
	"io"
	"os"

	"github.com/ds124wfegd/avatar-fix/config"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup configures the global logrus logger: JSON to stdout, and to a rotated file when one is set.
func Setup(cfg config.LogConfig) error {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	logrus.SetOutput(Output(cfg, os.Stdout))
	return nil
}

func Output(cfg config.LogConfig, stdout io.Writer) io.Writer {
	if cfg.File == "" {
		return stdout
	}
	return io.MultiWriter(stdout, &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB, // MB
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays, // days
		Compress:   true,
	})
}
