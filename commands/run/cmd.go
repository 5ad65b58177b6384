// Package run provides the command that launches a workflow and streams
// its output until completion.
package run

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/commands"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/launcher"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/logstream"
)

func init() {
	commands.Register("run", cmd{})
}

type cmd struct{}

func (cmd) Summary() string {
	return "Run a Nextflow workflow in Snowpark Container Services."
}

func (cmd) Usage() string {
	return `
nf-snowflake run packages the project folder, submits it as a service job
and streams the workflow output to your terminal until it completes. The
remote job is dropped when the command ends, whether the workflow
finished, failed or was interrupted.

usage: nf-snowflake run [options] [--eai-name <name>]... <project-dir>

options:
  -p --profile <profile>   Nextflow configuration profile to apply.
  --eai-name <name>        External access integration to attach to the
                           job, may be given multiple times.
  -c --config <file>       Launcher config file [default: nf-snowflake.yml].
  --image <image>          Override the container image from the config file.
  -L --log-level <level>   Override the configured log level.
  -h --help                Show this screen.
`
}

func (cmd) Execute(args map[string]interface{}) bool {
	env, err := commands.NewEnvironment(
		args["--config"].(string), commands.OptString(args["--log-level"]),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}
	defer env.Close()

	image := env.Config.Image
	if override := commands.OptString(args["--image"]); override != "" {
		image = override
	}

	run := launcher.New(launcher.Options{
		ProjectDir:   args["<project-dir>"].(string),
		Profile:      commands.OptString(args["--profile"]),
		Image:        image,
		EAINames:     args["--eai-name"].([]string),
		ReadyTimeout: env.Config.ReadyTimeout(),
	}, env.Platform, env.Tokens, &logstream.ConsoleSink{
		Out:   os.Stdout,
		Steps: os.Stderr,
	}, env.Monitor)

	// First interrupt aborts the run, a second one kills the process.
	interrupted := make(chan os.Signal, 1)
	signal.Notify(interrupted, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupted
		signal.Stop(interrupted)
		run.Abort()
	}()

	outcome, err := run.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}
	return commands.ReportOutcome(outcome)
}
