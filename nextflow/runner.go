package nextflow

import (
	"bufio"
	"io"
	"os"
	"os/exec"

	"github.com/pkg/errors"

	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/runtime/util"
)

// DefaultTool is the binary invoked when Runner.Tool is left empty.
const DefaultTool = "nextflow"

// maxLineSize bounds a single output line; nextflow config values can get
// long, terminal output shouldn't.
const maxLineSize = 1024 * 1024

// ErrToolNotFound is returned when the nextflow binary cannot be located
// or executed.
var ErrToolNotFound = errors.New("nextflow binary not found")

// LineCallback receives a single line of subprocess output, without the
// trailing newline.
type LineCallback func(line string)

// Runner executes the nextflow binary, forwarding stdout and stderr line
// by line to the configured callbacks. Callbacks are invoked from separate
// goroutines, one per stream; lines within a stream arrive in order.
type Runner struct {
	Tool   string // binary to invoke, DefaultTool if empty
	Dir    string // working directory, inherited if empty
	Stdout LineCallback
	Stderr LineCallback
}

// Run invokes the tool with the given arguments and blocks until it exits,
// returning the process exit code. A non-zero exit is not an error here;
// callers decide what a non-zero code means for them.
func (r *Runner) Run(args ...string) (int, error) {
	tool := r.Tool
	if tool == "" {
		tool = DefaultTool
	}

	cmd := exec.Command(tool, args...)
	cmd.Dir = r.Dir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, errors.Wrap(err, "failed to create stdout pipe")
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return 0, errors.Wrap(err, "failed to create stderr pipe")
	}

	debug("running: %s %v", tool, args)
	if err := cmd.Start(); err != nil {
		if isNotFound(err) {
			return 0, errors.Wrapf(ErrToolNotFound, "cannot execute '%s'", tool)
		}
		return 0, errors.Wrapf(err, "failed to start '%s'", tool)
	}

	// Both pipes must be drained before Wait
	util.Parallel(func() {
		scanLines(stdout, r.Stdout)
	}, func() {
		scanLines(stderr, r.Stderr)
	})

	if err := cmd.Wait(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return 0, errors.Wrapf(err, "failed waiting for '%s'", tool)
	}
	return 0, nil
}

func scanLines(r io.Reader, callback LineCallback) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		if callback != nil {
			callback(scanner.Text())
		}
	}
}

func isNotFound(err error) bool {
	if execErr, ok := err.(*exec.Error); ok {
		err = execErr.Err
	}
	return err == exec.ErrNotFound || os.IsNotExist(err)
}
