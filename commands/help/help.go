// Package help provides the help command.
package help

import (
	"fmt"
	"os"

	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/commands"
)

func init() {
	commands.Register("help", cmd{})
}

type cmd struct{}

func (cmd) Summary() string {
	return "Prints help for a command."
}

func (cmd) Usage() string {
	return "usage: nf-snowflake help <command>"
}

func (cmd) Execute(arguments map[string]interface{}) bool {
	command := arguments["<command>"].(string)
	provider, ok := commands.Commands()[command]
	if !ok {
		fmt.Println("Unknown command: ", command)
		os.Exit(1)
	}
	fmt.Print(provider.Usage())
	return true
}
