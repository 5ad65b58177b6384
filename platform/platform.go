// Package platform declares the operations a workflow run needs from the
// hosting compute platform. Orchestration code is written against this
// interface so it can be exercised with a mock, while the snowflake
// sub-package provides the production implementation.
package platform

import "time"

// Platform is the contract between the launcher and the remote platform
// that stores artifacts and runs workflow jobs.
//
// Implementations own a session against the platform and must release it
// in Close(). All methods are safe to call from the goroutine driving a
// run; they are not required to be safe for concurrent use.
type Platform interface {
	// PutFile uploads a local file to the given stage path.
	PutFile(localPath, stagePath string) error

	// CreateJob submits a job under the given name to a compute pool,
	// using the declarative specification rendered by the caller.
	// Names of external access integrations, if any, are attached to
	// the job so the workflow can reach services outside the platform.
	CreateJob(name, computePool string, specification []byte, eaiNames []string) error

	// AwaitReady blocks until the named job reports ready, or the
	// timeout expires, in which case an error is returned.
	AwaitReady(name string, timeout time.Duration) error

	// StreamingEndpoint resolves the public streaming URL exposed by
	// the named job. The returned URL carries a websocket scheme.
	StreamingEndpoint(name string) (string, error)

	// DropJob removes the named job. Dropping a job that does not
	// exist is not an error.
	DropJob(name string) error

	// TagSession attaches a tag to the platform session, so statements
	// issued by the launcher can be attributed to a run.
	TagSession(tag string) error

	// UntagSession clears the session tag set with TagSession.
	UntagSession() error

	// Close releases the platform session.
	Close() error
}
