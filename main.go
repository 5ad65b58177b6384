// Package main hosts the main function for nf-snowflake.
package main

import (
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/commands"

	// Register all sub-commands with the command dispatcher.
	_ "github.com/sfc-gh-hyu/snowflake-cli-nextflow/commands/attach"
	_ "github.com/sfc-gh-hyu/snowflake-cli-nextflow/commands/configcmd"
	_ "github.com/sfc-gh-hyu/snowflake-cli-nextflow/commands/help"
	_ "github.com/sfc-gh-hyu/snowflake-cli-nextflow/commands/run"
	_ "github.com/sfc-gh-hyu/snowflake-cli-nextflow/commands/schema"
	_ "github.com/sfc-gh-hyu/snowflake-cli-nextflow/commands/version"
)

func main() {
	commands.Run(nil)
}
