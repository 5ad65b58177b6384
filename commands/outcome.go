package commands

import (
	"fmt"
	"os"

	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/logstream"
)

// ReportOutcome prints the terminal result of a streamed workflow and
// returns whether the command should exit zero.
func ReportOutcome(outcome logstream.Outcome) bool {
	switch {
	case outcome.Completed && outcome.Code == 0:
		fmt.Printf("Nextflow workflow completed successfully (exit code: %d)\n", outcome.Code)
		return true
	case outcome.Completed:
		fmt.Fprintf(os.Stderr, "Nextflow workflow completed with exit code: %d\n", outcome.Code)
		return false
	default:
		fmt.Fprintln(os.Stderr, "Nextflow workflow execution interrupted or failed to complete")
		return false
	}
}

// OptString unpacks an optional docopt value, returning the empty string
// when the option was not given.
func OptString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
