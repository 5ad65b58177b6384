// Package schema provides the command that dumps the config file schema.
package schema

import (
	"encoding/json"
	"fmt"
	"os"

	yaml "github.com/ghodss/yaml"

	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/commands"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/config"
)

func init() {
	commands.Register("schema", cmd{})
}

type cmd struct{}

func (cmd) Summary() string {
	return "Dump the JSON schema for the launcher config file."
}

func (cmd) Usage() string {
	return `
nf-snowflake schema exports the JSON schema document that launcher config
files are validated against.

usage: nf-snowflake schema [options]

options:
  -f --format <format>   Set the format json or yaml [Default: json].
  -o --output <file>     Write output to a file [Default: -].
  -h --help              Show this screen.
`
}

func (cmd) Execute(args map[string]interface{}) bool {
	schema := config.Schema().Schema()

	// Format schema to JSON or YAML
	var data []byte
	var err error
	if args["--format"].(string) == "yaml" {
		data, err = yaml.Marshal(schema)
	} else {
		data, err = json.MarshalIndent(schema, "", "  ")
	}
	if err != nil {
		panic(fmt.Sprintf("Internal error, failed to serialize schema, error: %s", err))
	}

	// Write output file or write to stdout
	output := args["--output"].(string)
	if output != "-" {
		err = os.WriteFile(output, data, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write file: '%s', error: %s\n", output, err)
			return false
		}
	} else {
		fmt.Println(string(data))
	}

	return true
}
