package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/nshahpazov/nyc-bikership-analysis/config"
)

// New builds the process logger on stderr; stdout carries results.
func New(cfg config.Config, version string, appName string) (*slog.Logger, error) {
	return NewWithWriter(os.Stderr, cfg, version, appName)
}

// NewWithWriter is New with an explicit destination. Development builds get
// coloured tint output, production builds JSON.
func NewWithWriter(w io.Writer, cfg config.Config, version string, appName string) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}

	if cfg.AppEnv == "dev" {
		h := tint.NewHandler(w, &tint.Options{
			Level:      level,
			AddSource:  true,
			TimeFormat: time.Kitchen,
		})
		return slog.New(h).With("app", appName), nil
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(h).With(
		"app", appName,
		"version", version,
		"env", cfg.AppEnv,
	), nil
}
