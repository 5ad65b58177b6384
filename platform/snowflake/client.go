// Package snowflake implements the platform contract on top of a
// Snowflake session, running workflow jobs as Snowpark Container
// Services and staging artifacts with PUT.
package snowflake

import (
	"database/sql"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	sf "github.com/snowflakedb/gosnowflake"

	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/platform"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/runtime"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/runtime/util"
)

var debug = util.Debug("snowflake")

// Options holds the connection parameters for a Snowflake session.
type Options struct {
	Account   string
	User      string
	Password  string
	Host      string
	Role      string
	Database  string
	Schema    string
	Warehouse string
}

// EndpointHost returns the host used for REST calls against the account,
// honoring an explicit host override.
func (o Options) EndpointHost() string {
	if o.Host != "" {
		return o.Host
	}
	return o.Account + ".snowflakecomputing.com"
}

// Client is a platform.Platform backed by a Snowflake session.
type Client struct {
	db      *sql.DB
	monitor runtime.Monitor
}

var _ platform.Platform = (*Client)(nil)

// New opens a Snowflake session with the given options. The session is
// lazy, so a bad password surfaces on the first statement rather than
// here.
func New(options Options, monitor runtime.Monitor) (*Client, error) {
	dsn, err := sf.DSN(&sf.Config{
		Account:     options.Account,
		User:        options.User,
		Password:    options.Password,
		Host:        options.Host,
		Role:        options.Role,
		Database:    options.Database,
		Schema:      options.Schema,
		Warehouse:   options.Warehouse,
		Application: "snowflake-cli-nextflow",
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to construct DSN from connection options")
	}
	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open snowflake session")
	}
	return &Client{db: db, monitor: monitor}, nil
}

func (c *Client) exec(stmt string) error {
	debug("exec: %s", stmt)
	_, err := c.db.Exec(stmt)
	return err
}

// PutFile uploads a local file to the given stage path.
func (c *Client) PutFile(localPath, stagePath string) error {
	abs, err := filepath.Abs(localPath)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve path to '%s'", localPath)
	}
	return errors.Wrapf(
		c.exec(putStatement(abs, stagePath)),
		"failed to upload '%s' to '%s'", abs, stagePath,
	)
}

// CreateJob submits a job to a compute pool from a rendered
// specification document.
func (c *Client) CreateJob(name, computePool string, specification []byte, eaiNames []string) error {
	return errors.Wrapf(
		c.exec(createServiceStatement(name, computePool, specification, eaiNames)),
		"failed to create service '%s' in compute pool '%s'", name, computePool,
	)
}

// AwaitReady blocks until the named job is running. The wait is bounded
// server-side, so a job stuck in a pending state returns an error once
// the timeout expires.
func (c *Client) AwaitReady(name string, timeout time.Duration) error {
	return errors.Wrapf(
		c.exec(waitForReadyStatement(name, timeout)),
		"service '%s' did not become ready within %s", name, timeout,
	)
}

// StreamingEndpoint resolves the public websocket URL of the named job.
func (c *Client) StreamingEndpoint(name string) (string, error) {
	stmt := showEndpointsStatement(name)
	debug("query: %s", stmt)
	rows, err := c.db.Query(stmt)
	if err != nil {
		return "", errors.Wrapf(err, "failed to list endpoints of service '%s'", name)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return "", errors.Wrap(err, "failed to read endpoint listing columns")
	}
	ingress := -1
	for i, column := range columns {
		if column == "ingress_url" {
			ingress = i
		}
	}
	if ingress == -1 {
		return "", errors.Errorf("endpoint listing for service '%s' has no ingress_url column", name)
	}

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return "", errors.Wrapf(err, "failed to read endpoints of service '%s'", name)
		}
		return "", errors.Errorf("service '%s' exposes no endpoints", name)
	}
	values := make([]interface{}, len(columns))
	scan := make([]interface{}, len(columns))
	for i := range values {
		scan[i] = &values[i]
	}
	if err = rows.Scan(scan...); err != nil {
		return "", errors.Wrap(err, "failed to scan endpoint row")
	}

	var url string
	switch v := values[ingress].(type) {
	case string:
		url = v
	case []byte:
		url = string(v)
	default:
		return "", errors.Errorf("unexpected ingress_url value of type %T", values[ingress])
	}
	// The listing returns a placeholder text until the endpoint has a
	// public address assigned.
	if strings.Contains(strings.ToLower(url), "provisioning") {
		return "", errors.Errorf("endpoint of service '%s' is still provisioning: %s", name, url)
	}
	return "wss://" + url, nil
}

// DropJob removes the named job if it exists.
func (c *Client) DropJob(name string) error {
	return errors.Wrapf(c.exec(dropJobStatement(name)), "failed to drop service '%s'", name)
}

// TagSession attaches a query tag to the session.
func (c *Client) TagSession(tag string) error {
	return errors.Wrap(c.exec(tagSessionStatement(tag)), "failed to set session query tag")
}

// UntagSession clears the session query tag.
func (c *Client) UntagSession() error {
	return errors.Wrap(c.exec(untagSessionStatement), "failed to unset session query tag")
}

// Close releases the underlying session.
func (c *Client) Close() error {
	return c.db.Close()
}
