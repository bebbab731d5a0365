// internal/logging/logging.go
package logging

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/tamzrod/fsm-bridge/internal/config"
)

const flags = log.LstdFlags | log.Lmicroseconds

// Writer returns the log sink for cfg.
// Without a file the sink is stderr only.
// The returned closer releases the rotating file, if any.
func Writer(cfg config.LogConfig, stderr io.Writer) (io.Writer, func() error) {
	if cfg.File == "" {
		return stderr, func() error { return nil }
	}

	lj := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	return io.MultiWriter(stderr, lj), lj.Close
}

// Setup points the standard logger at the configured sink.
func Setup(cfg config.LogConfig) func() error {
	w, closeFn := Writer(cfg, os.Stderr)
	log.SetOutput(w)
	log.SetFlags(flags)
	return closeFn
}
