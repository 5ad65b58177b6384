package config

import (
	"time"

	schematypes "github.com/taskcluster/go-schematypes"

	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/runtime/monitoring"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/runtime/util"
)

// Defaults applied after schema validation, when the optional keys are
// absent from the config file.
const (
	DefaultImage               = "/HYU/PUBLIC/NF_REPO/nf-snowflake:1.0"
	DefaultReadyTimeoutSeconds = 30
	DefaultLogLevel            = "info"
)

// Connection identifies the Snowflake account to run against and the
// session options for statements issued by the launcher.
type Connection struct {
	Account   string `json:"account"`
	User      string `json:"user"`
	Password  string `json:"password"`
	Host      string `json:"host"`
	Role      string `json:"role"`
	Database  string `json:"database"`
	Schema    string `json:"schema"`
	Warehouse string `json:"warehouse"`
}

// Config is the launcher configuration file, validated and with defaults
// applied.
type Config struct {
	Connection          Connection `json:"connection"`
	Image               string     `json:"image"`
	ReadyTimeoutSeconds int        `json:"readyTimeoutSeconds"`
	LogLevel            string     `json:"logLevel"`
	Syslog              string     `json:"syslog"`
}

// ReadyTimeout returns the readiness timeout as a duration.
func (c *Config) ReadyTimeout() time.Duration {
	return time.Duration(c.ReadyTimeoutSeconds) * time.Second
}

// Schema returns the configuration file schema.
func Schema() schematypes.Object {
	return schematypes.Object{
		Title: "Launcher Configuration",
		Description: util.Markdown(`
			Connection details and execution options for launching Nextflow
			workflows on Snowpark Container Services.
		`),
		Properties: schematypes.Properties{
			"connection": schematypes.Object{
				Title:       "Snowflake Connection",
				Description: "Account and credentials used for artifact upload, job submission and streaming authentication.",
				Properties: schematypes.Properties{
					"account": schematypes.String{
						Title: "Account Identifier",
					},
					"user": schematypes.String{
						Title: "Login Name",
					},
					"password": schematypes.String{
						Title: "Password",
						Description: util.Markdown(`
							May be given as '{$env: VAR}' to read the password
							from the environment instead of storing it in the
							config file.
						`),
					},
					"host": schematypes.String{
						Title:       "Host",
						Description: "Overrides the endpoint host, defaults to <account>.snowflakecomputing.com.",
					},
					"role":      schematypes.String{Title: "Role"},
					"database":  schematypes.String{Title: "Database"},
					"schema":    schematypes.String{Title: "Schema"},
					"warehouse": schematypes.String{Title: "Warehouse"},
				},
				Required: []string{"account", "user", "password"},
			},
			"image": schematypes.String{
				Title:       "Container Image",
				Description: "Image the service job runs, as a repository path in the account.",
			},
			"readyTimeoutSeconds": schematypes.Integer{
				Title:       "Readiness Timeout",
				Description: "How long to wait for the submitted job to report ready, in seconds.",
				Minimum:     1,
				Maximum:     3600,
			},
			"logLevel": schematypes.StringEnum{
				Options: monitoring.LogLevels(),
			},
			"syslog": schematypes.String{
				Title:       "Syslog Name",
				Description: "Name to use for the process in syslog, leave as empty string to disable syslog forwarding.",
			},
		},
		Required: []string{"connection"},
	}
}

func applyDefaults(c *Config) {
	if c.Image == "" {
		c.Image = DefaultImage
	}
	if c.ReadyTimeoutSeconds == 0 {
		c.ReadyTimeoutSeconds = DefaultReadyTimeoutSeconds
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}
