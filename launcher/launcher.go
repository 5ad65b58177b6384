// Package launcher drives a workflow run from a local project folder to a
// completed remote job. A Run walks a fixed sequence of stages: resolve
// the project configuration, pack and upload the project archive, submit
// the service job, await readiness, and stream output until the workflow
// signals completion. Whatever happens along the way, the remote job is
// dropped before Execute returns.
package launcher

import (
	"encoding/json"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/archive"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/jobspec"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/logstream"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/nextflow"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/platform"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/runid"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/runtime"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/runtime/atomics"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/runtime/util"
)

var debug = util.Debug("launcher")

// ErrAborted is returned from Execute when Abort stopped the run before
// the streaming stage was reached.
var ErrAborted = errors.New("run aborted")

// DefaultReadyTimeout is how long a run waits for the submitted job to
// report ready when Options.ReadyTimeout is left zero.
const DefaultReadyTimeout = 30 * time.Second

// Options configure a Run. ProjectDir is the only required field.
type Options struct {
	// ProjectDir is the local workflow project folder.
	ProjectDir string
	// Profile, if set, selects a configuration profile both when
	// resolving the project configuration and when running the workflow
	// in the remote job.
	Profile string
	// Image is the container image the job runs.
	Image string
	// EAINames lists external access integrations attached to the job.
	EAINames []string
	// ReadyTimeout bounds the await stage, DefaultReadyTimeout if zero.
	ReadyTimeout time.Duration
	// Rand is the randomness source for the run token, seeded from the
	// clock if nil. Tests inject a deterministic source here.
	Rand *rand.Rand
	// Tool overrides the workflow binary used to resolve configuration.
	Tool string
	// Storage overrides where the intermediate project archive is
	// written. If nil, a folder under the system temporary directory is
	// created for the duration of the pack stage.
	Storage runtime.TemporaryStorage
}

// A Run is a single-use workflow launch. Create it with New, drive it
// with Execute, and interrupt it with Abort from any goroutine.
type Run struct {
	options  Options
	platform platform.Platform
	sink     logstream.Sink
	monitor  runtime.Monitor

	token   runid.ID
	client  *logstream.Client
	aborted atomics.Once

	// state handed from one stage to the next
	config   *nextflow.ProjectConfig
	artifact string
	document []byte
	outcome  logstream.Outcome
}

// New creates a Run against the given platform. The streaming connection
// authenticates with tokens, and decoded stream content goes to sink.
func New(options Options, p platform.Platform, tokens logstream.TokenSource, sink logstream.Sink, monitor runtime.Monitor) *Run {
	rng := options.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Run{
		options:  options,
		platform: p,
		sink:     sink,
		monitor:  monitor,
		token:    runid.New(rng),
		client:   logstream.New(tokens, sink, monitor.WithPrefix("logstream")),
	}
}

// Token returns the run token identifying this run.
func (r *Run) Token() runid.ID {
	return r.token
}

// JobName returns the name of the remote job this run creates.
func (r *Run) JobName() string {
	return r.token.JobName()
}

type stage struct {
	name string
	fn   func(*Run) error
}

// Stages execute in order; each may rely on the state left by its
// predecessors.
var stages = []stage{
	{"resolve", resolve},
	{"pack", pack},
	{"submit", submit},
	{"await", await},
	{"stream", stream},
}

// Execute runs all stages and returns the workflow outcome. The outcome
// is Incomplete unless the remote workflow signaled completion; Abort and
// a dropped connection during streaming yield Incomplete with a nil
// error, while Abort between stages yields ErrAborted.
//
// Execute drops the remote job before returning, on every path. A
// cleanup failure is reported through the monitor and never displaces
// the run's own error.
func (r *Run) Execute() (logstream.Outcome, error) {
	defer r.cleanup()

	for _, s := range stages {
		if r.aborted.IsDone() {
			return logstream.Incomplete, errors.Wrapf(ErrAborted, "before stage '%s'", s.name)
		}

		debug("entering stage: %s", s.name)
		monitor := r.monitor.WithTag("stage", s.name)

		var err error
		incidentID := monitor.CapturePanic(func() {
			err = s.fn(r)
		})
		if incidentID != "" {
			return logstream.Incomplete, errors.Errorf(
				"internal error in stage '%s', incidentID: %s", s.name, incidentID)
		}
		if err != nil {
			return logstream.Incomplete, errors.Wrapf(err, "stage '%s' failed", s.name)
		}
	}

	return r.outcome, nil
}

// Abort interrupts the run. During the streaming stage the connection is
// closed and Execute returns Incomplete with a nil error; earlier, the
// run stops at the next stage boundary with ErrAborted. Idempotent and
// safe to call from any goroutine.
func (r *Run) Abort() {
	r.aborted.Do(func() {
		debug("abort requested")
		r.client.Abort()
	})
}

// cleanup drops the remote job. Dropping a job that was never created is
// harmless, so this runs unconditionally as the last action of Execute.
func (r *Run) cleanup() {
	debug("dropping job: %s", r.JobName())
	if err := r.platform.DropJob(r.JobName()); err != nil {
		r.monitor.ReportWarning(err, "failed to drop job: ", r.JobName())
	}
}

// resolve obtains the compute pool, work-directory stage and stage mounts
// declared by the project.
func resolve(r *Run) error {
	config, err := nextflow.Extractor{Tool: r.options.Tool}.Extract(r.options.ProjectDir, r.options.Profile)
	if err != nil {
		return err
	}
	r.config = config
	return nil
}

// pack archives the project folder and uploads it to the run's folder
// under the work-directory stage.
func pack(r *Run) error {
	storage := r.options.Storage
	if storage == nil {
		s, err := runtime.NewTemporaryTestStorage("nextflow-run-")
		if err != nil {
			return errors.Wrap(err, "unable to create temporary storage")
		}
		defer s.(runtime.TemporaryFolder).Remove()
		storage = s
	}

	packager := &archive.Packager{
		Storage:  storage,
		Platform: r.platform,
		Monitor:  r.monitor.WithPrefix("archive"),
	}
	artifact, err := packager.Upload(r.options.ProjectDir, r.config.WorkDirStage, r.token)
	if err != nil {
		return err
	}
	r.artifact = artifact
	return nil
}

// queryTag is attached to the platform session while the job is being
// submitted, attributing the statements to this run.
type queryTag struct {
	JobType string `json:"NEXTFLOW_JOB_TYPE"`
	RunID   string `json:"NEXTFLOW_RUN_ID"`
}

// submit renders the service specification and creates the job.
func submit(r *Run) error {
	specification := jobspec.Build(jobspec.Params{
		Token:        r.token,
		Profile:      r.options.Profile,
		Image:        r.options.Image,
		WorkDirStage: r.config.WorkDirStage,
		ArtifactName: r.artifact,
		Volumes:      r.config.Volumes,
	})
	if err := specification.Validate(); err != nil {
		return err
	}
	document, err := specification.Render()
	if err != nil {
		return err
	}
	r.document = document

	tag, err := json.Marshal(queryTag{JobType: "main", RunID: r.token.String()})
	if err != nil {
		return errors.Wrap(err, "unable to render session tag")
	}
	if err := r.platform.TagSession(string(tag)); err != nil {
		return errors.Wrap(err, "unable to tag session")
	}

	return r.platform.CreateJob(r.JobName(), r.config.ComputePool, document, r.options.EAINames)
}

// await blocks until the job reports ready, then clears the session tag.
// The tag only exists to attribute submission statements, so failing to
// clear it is reported as a warning rather than failing the run.
func await(r *Run) error {
	timeout := r.options.ReadyTimeout
	if timeout <= 0 {
		timeout = DefaultReadyTimeout
	}
	if err := r.platform.AwaitReady(r.JobName(), timeout); err != nil {
		return err
	}
	if err := r.platform.UntagSession(); err != nil {
		r.monitor.ReportWarning(err, "failed to clear session tag")
	}
	return nil
}

// stream resolves the job's public endpoint and forwards its output until
// the workflow completes or the stream ends.
func stream(r *Run) error {
	endpoint, err := r.platform.StreamingEndpoint(r.JobName())
	if err != nil {
		return err
	}
	outcome, err := r.client.Stream(endpoint)
	if err != nil {
		return err
	}
	r.outcome = outcome
	return nil
}
