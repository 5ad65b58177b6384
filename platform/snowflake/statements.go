package snowflake

import (
	"fmt"
	"strings"
	"time"
)

// Statement builders are kept free of connection state so the exact SQL
// sent to the platform can be asserted in tests.

func putStatement(localPath, stagePath string) string {
	return fmt.Sprintf("PUT file://%s %s", localPath, stagePath)
}

func createServiceStatement(name, computePool string, specification []byte, eaiNames []string) string {
	stmt := fmt.Sprintf(
		"CREATE SERVICE %s\nIN COMPUTE POOL %s\nFROM SPECIFICATION $$\n%s\n$$",
		name, computePool, specification,
	)
	if len(eaiNames) > 0 {
		stmt += fmt.Sprintf("\nEXTERNAL_ACCESS_INTEGRATIONS = (%s)", strings.Join(eaiNames, ", "))
	}
	return stmt
}

func waitForReadyStatement(name string, timeout time.Duration) string {
	return fmt.Sprintf("call system$wait_for_services(%d, '%s')", int(timeout/time.Second), name)
}

func showEndpointsStatement(name string) string {
	return "show endpoints in service " + name
}

func dropJobStatement(name string) string {
	return "drop service if exists " + name
}

func tagSessionStatement(tag string) string {
	return fmt.Sprintf("alter session set query_tag = '%s'", tag)
}

const untagSessionStatement = "alter session unset query_tag"
