// Package nextflow invokes the local nextflow binary and turns its flat
// configuration output into the typed project configuration a run is built
// from.
package nextflow

import "github.com/sfc-gh-hyu/snowflake-cli-nextflow/runtime/util"

var debug = util.Debug("nextflow")
