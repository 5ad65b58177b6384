package commands

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/config"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/platform/snowflake"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/runtime"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/runtime/monitoring"
)

// Environment is the shared wiring commands need to talk to the
// platform: validated configuration, a monitor, the platform session and
// the token source for streaming authentication.
type Environment struct {
	Config   *config.Config
	Monitor  runtime.Monitor
	Platform *snowflake.Client
	Tokens   *snowflake.TokenSource
}

// NewEnvironment loads the config file and opens the platform session.
// A non-empty logLevel overrides the configured one. Callers own the
// session and must call Close.
func NewEnvironment(configFile, logLevel string) (*Environment, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		level := strings.ToLower(logLevel)
		if !contains(monitoring.LogLevels(), level) {
			return nil, errors.Errorf("unsupported log-level: %s", logLevel)
		}
		cfg.LogLevel = level
	}

	var monitor runtime.Monitor
	if cfg.Syslog != "" {
		monitor, err = monitoring.NewWithSyslog(cfg.LogLevel, cfg.Syslog, nil)
		if err != nil {
			return nil, err
		}
	} else {
		monitor = monitoring.New(cfg.LogLevel, nil)
	}

	options := snowflake.Options{
		Account:   cfg.Connection.Account,
		User:      cfg.Connection.User,
		Password:  cfg.Connection.Password,
		Host:      cfg.Connection.Host,
		Role:      cfg.Connection.Role,
		Database:  cfg.Connection.Database,
		Schema:    cfg.Connection.Schema,
		Warehouse: cfg.Connection.Warehouse,
	}
	client, err := snowflake.New(options, monitor.WithPrefix("snowflake"))
	if err != nil {
		return nil, err
	}

	return &Environment{
		Config:   cfg,
		Monitor:  monitor,
		Platform: client,
		Tokens:   snowflake.NewTokenSource(options),
	}, nil
}

// Close releases the platform session.
func (e *Environment) Close() error {
	return e.Platform.Close()
}

func contains(list []string, element string) bool {
	for _, s := range list {
		if s == element {
			return true
		}
	}
	return false
}
