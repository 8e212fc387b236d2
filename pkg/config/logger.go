package config

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger contains the compiler's logger configuration (SPEC_FULL.md's
// ambient logging section), shaped after the teacher's own
// LogEncoding/LogLevel config (pkg/config/logger.go) but trimmed to what
// a one-shot CLI invocation needs: no LogPath/file-sink rotation, since
// a compiler run outputs to stdout/a single artifact file rather than
// running as a long-lived node that rotates log files across restarts.
type Logger struct {
	Encoding string `yaml:"LogEncoding"`
	Level    string `yaml:"LogLevel"`
	Debug    bool   `yaml:"-"`
}

// Validate returns an error if Logger configuration is not valid.
func (l Logger) Validate() error {
	if len(l.Encoding) > 0 && l.Encoding != "console" && l.Encoding != "json" {
		return fmt.Errorf("invalid LogEncoding: %s", l.Encoding)
	}
	return nil
}

// New builds a *zap.Logger from l, grounded on
// cli/options.HandleLoggingParams's zap.NewProductionConfig setup
// (disabled caller/stacktrace, capital level encoding) with the
// timestamp-on-TTY / Windows file-sink handling dropped, since those
// concerns exist for a node daemonized across a terminal session, not a
// CLI tool that exits after one compile.
func (l Logger) New() (*zap.Logger, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	level := zapcore.InfoLevel
	if l.Level != "" {
		parsed, err := zapcore.ParseLevel(l.Level)
		if err != nil {
			return nil, fmt.Errorf("log setting: %w", err)
		}
		level = parsed
	}
	if l.Debug {
		level = zapcore.DebugLevel
	}

	cc := zap.NewProductionConfig()
	cc.DisableCaller = true
	cc.DisableStacktrace = true
	cc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	cc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if l.Encoding != "" {
		cc.Encoding = l.Encoding
	} else {
		cc.Encoding = "console"
	}
	cc.Level = zap.NewAtomicLevelAt(level)
	cc.Sampling = nil

	return cc.Build()
}
