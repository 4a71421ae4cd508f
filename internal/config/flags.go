package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/cloudvault/internal/flagx"
)

var knownFlags = []string{
	"-backend", "-data", "-dsn",
	"-log-level", "-log-format", "-log-file",
	"-max-failed", "-admin",
}

// parseFlags populates cfg from command-line flags. Unknown arguments are
// filtered out first so -c/-config and positional args do not interfere.
//
//	-backend string     file | sqlite | postgres
//	-data string        data directory
//	-dsn string         database DSN
//	-log-level string   debug | info | warn | error
//	-log-format string  text | json
//	-log-file string    log destination, stderr when empty
//	-max-failed int     failed logins before lockout
//	-admin string       account promoted to administrator at startup
func parseFlags(cfg *Config, args []string) error {
	filtered := flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("cloudvault", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "storage backend")
	fs.StringVar(&cfg.DataDir, "data", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.DSN, "dsn", cfg.DSN, "database DSN")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "log file")
	fs.IntVar(&cfg.MaxFailedLogins, "max-failed", cfg.MaxFailedLogins, "failed logins before lockout")
	fs.StringVar(&cfg.BootstrapAdmin, "admin", cfg.BootstrapAdmin, "bootstrap administrator")

	return fs.Parse(filtered)
}
