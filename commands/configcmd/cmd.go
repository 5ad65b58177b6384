// Package configcmd provides the command that reads and edits single
// values in the launcher config file.
package configcmd

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"

	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/commands"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/config"
)

func init() {
	commands.Register("config", cmd{})
}

type cmd struct{}

func (cmd) Summary() string {
	return "Get or set values in the launcher config file."
}

func (cmd) Usage() string {
	return `
nf-snowflake config reads or writes a single value in the launcher config
file, addressed by dotted key path such as 'connection.account'. Setting
a value creates the file if it does not exist yet.

usage:
  nf-snowflake config [options] get <key>
  nf-snowflake config [options] set <key> <value>

options:
  -c --config <file>   Launcher config file [default: nf-snowflake.yml].
  -h --help            Show this screen.
`
}

func (cmd) Execute(args map[string]interface{}) bool {
	filename := args["--config"].(string)
	key := args["<key>"].(string)

	if args["set"].(bool) {
		raw := args["<value>"].(string)
		if err := config.Set(filename, key, config.ParseValue(raw)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return false
		}
		fmt.Printf("Successfully set config for %s to %s\n", key, raw)
		return true
	}

	value, err := config.Get(filename, key)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}
	switch value.(type) {
	case map[string]interface{}, []interface{}:
		data, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return false
		}
		fmt.Print(string(data))
	default:
		fmt.Println(value)
	}
	return true
}
