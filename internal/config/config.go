// Package config assembles CloudVault runtime settings from defaults, an
// optional config file and command-line flags. Later sources take precedence.
package config

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/dmitrijs2005/cloudvault/internal/common"
)

const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

var backends = []string{BackendFile, BackendSQLite, BackendPostgres}

type Config struct {
	Backend         string `yaml:"backend" toml:"backend"`
	DataDir         string `yaml:"data_dir" toml:"data_dir"`
	UsersFile       string `yaml:"users_file" toml:"users_file"`
	FilesDir        string `yaml:"files_dir" toml:"files_dir"`
	DSN             string `yaml:"dsn" toml:"dsn"`
	AuditLogFile    string `yaml:"audit_log_file" toml:"audit_log_file"`
	LogLevel        string `yaml:"log_level" toml:"log_level"`
	LogFormat       string `yaml:"log_format" toml:"log_format"`
	LogFile         string `yaml:"log_file" toml:"log_file"` // empty: stderr
	MaxFailedLogins int    `yaml:"max_failed_logins" toml:"max_failed_logins"`
	BootstrapAdmin  string `yaml:"bootstrap_admin" toml:"bootstrap_admin"`
}

// LoadDefaults populates c with the flat-file layout in the working directory.
func (c *Config) LoadDefaults() {
	c.Backend = BackendFile
	c.DataDir = "."
	c.UsersFile = "cloud_users.dat"
	c.FilesDir = "cloud_data"
	c.DSN = ""
	c.AuditLogFile = "cloud_system.log"
	c.LogLevel = "warn"
	c.LogFormat = "text"
	c.LogFile = ""
	c.MaxFailedLogins = common.MaxFailedLogins
	c.BootstrapAdmin = ""
}

// LoadConfig applies defaults, then the file named by -c/-config, then flags.
// args are the process arguments without the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if !slices.Contains(backends, c.Backend) {
		return fmt.Errorf("unknown backend %q, want one of %v", c.Backend, backends)
	}
	if c.Backend == BackendPostgres && c.DSN == "" {
		return fmt.Errorf("backend %q requires a dsn", c.Backend)
	}
	if c.MaxFailedLogins < 1 {
		return fmt.Errorf("max failed logins must be positive, got %d", c.MaxFailedLogins)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data dir must not be empty")
	}
	return nil
}

func (c *Config) UsersPath() string {
	return filepath.Join(c.DataDir, c.UsersFile)
}

func (c *Config) FilesPath() string {
	return filepath.Join(c.DataDir, c.FilesDir)
}

func (c *Config) AuditLogPath() string {
	return filepath.Join(c.DataDir, c.AuditLogFile)
}

// SQLiteDSN is the DSN, or a database file in the data dir when unset.
func (c *Config) SQLiteDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return filepath.Join(c.DataDir, "cloudvault.db")
}
