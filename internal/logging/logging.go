package logging

import (
	"fmt"
	"io"
	"os"

	"wonderland/internal/config"

	"github.com/sirupsen/logrus"
)

// Setup configures the standard logger. Logs go to c.File when set and to
// fallback otherwise; the TUI passes io.Discard so nothing draws over the
// screen. The returned func closes the log file.
func Setup(c config.LogConfig, fallback io.Writer) (func() error, error) {
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if c.File == "" {
		logrus.SetOutput(fallback)
		return func() error { return nil }, nil
	}

	f, err := os.OpenFile(c.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	logrus.SetOutput(f)
	return f.Close, nil
}
