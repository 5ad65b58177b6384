// Package attach provides the command that reconnects to the output
// stream of a job that is already running.
package attach

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/commands"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/launcher"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/logstream"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/runid"
)

func init() {
	commands.Register("attach", cmd{})
}

type cmd struct{}

func (cmd) Summary() string {
	return "Attach to the output stream of a running workflow job."
}

func (cmd) Usage() string {
	return `
nf-snowflake attach connects to the streaming endpoint of an existing
workflow job and forwards its output, picking up where a disconnected run
left off. Detaching does not stop the job; the launcher that created it
still owns its lifecycle.

usage: nf-snowflake attach [options] <job-name>

options:
  -c --config <file>       Launcher config file [default: nf-snowflake.yml].
  -L --log-level <level>   Override the configured log level.
  -h --help                Show this screen.
`
}

func (cmd) Execute(args map[string]interface{}) bool {
	jobName := args["<job-name>"].(string)
	if !runid.IsJobName(jobName) {
		fmt.Fprintf(os.Stderr, "'%s' is not a workflow job name (expected NXF_MAIN_<token>)\n", jobName)
		return false
	}

	env, err := commands.NewEnvironment(
		args["--config"].(string), commands.OptString(args["--log-level"]),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}
	defer env.Close()

	attachment := launcher.NewAttachment(
		jobName,
		env.Platform, env.Tokens, &logstream.ConsoleSink{
			Out:   os.Stdout,
			Steps: os.Stderr,
		}, env.Monitor)

	// First interrupt detaches, a second one kills the process.
	interrupted := make(chan os.Signal, 1)
	signal.Notify(interrupted, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupted
		signal.Stop(interrupted)
		attachment.Abort()
	}()

	outcome, err := attachment.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}
	return commands.ReportOutcome(outcome)
}
