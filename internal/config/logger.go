package config

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// NewLogger builds the root logger. The local environment gets a console
// writer; anything else logs JSON lines.
func (c *Config) NewLogger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	if strings.EqualFold(c.Env, "local") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
