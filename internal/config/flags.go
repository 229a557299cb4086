package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/movielib/internal/flagx"
)

var knownFlags = []string{"-d", "-k", "-o", "-log-level", "-log-format", "-single-user", "-session-file"}

// parseFlags overlays cfg with command-line flags. Unknown arguments
// are filtered out first; a bad value panics.
func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("movielib", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.OMDbAPIKey, "k", cfg.OMDbAPIKey, "OMDb API key")
	fs.StringVar(&cfg.OutputDir, "o", cfg.OutputDir, "output directory")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (slog|zap)")
	fs.BoolVar(&cfg.SingleUser, "single-user", cfg.SingleUser, "single-user mode")
	fs.StringVar(&cfg.SessionFile, "session-file", cfg.SessionFile, "remembered session file")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		panic(err)
	}
}
