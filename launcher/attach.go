package launcher

import (
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/logstream"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/platform"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/runtime"
)

// An Attachment connects to the output stream of a job that is already
// running. Unlike a Run it neither creates nor drops the job; the
// launcher that created the job still owns its lifecycle, so detaching
// leaves the workflow running.
type Attachment struct {
	jobName  string
	platform platform.Platform
	client   *logstream.Client
}

// NewAttachment prepares an attachment to the named job.
func NewAttachment(jobName string, p platform.Platform, tokens logstream.TokenSource, sink logstream.Sink, monitor runtime.Monitor) *Attachment {
	return &Attachment{
		jobName:  jobName,
		platform: p,
		client:   logstream.New(tokens, sink, monitor.WithPrefix("logstream")),
	}
}

// Execute resolves the job's streaming endpoint and forwards its output
// until the workflow completes, the connection drops, or Abort is called.
func (a *Attachment) Execute() (logstream.Outcome, error) {
	endpoint, err := a.platform.StreamingEndpoint(a.jobName)
	if err != nil {
		return logstream.Incomplete, err
	}
	return a.client.Stream(endpoint)
}

// Abort detaches from the stream. The remote job keeps running.
func (a *Attachment) Abort() {
	a.client.Abort()
}
