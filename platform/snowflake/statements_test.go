package snowflake

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCreateServiceStatement(t *testing.T) {
	spec := []byte("spec:\n  containers: []\n")
	stmt := createServiceStatement("NXF_MAIN_abcd1234", "MY_POOL", spec, nil)
	assert.Equal(t,
		"CREATE SERVICE NXF_MAIN_abcd1234\n"+
			"IN COMPUTE POOL MY_POOL\n"+
			"FROM SPECIFICATION $$\n"+
			"spec:\n  containers: []\n"+
			"\n$$",
		stmt)
}

func TestCreateServiceStatementWithIntegrations(t *testing.T) {
	stmt := createServiceStatement("NXF_MAIN_abcd1234", "MY_POOL", []byte("spec"), []string{"PYPI_EAI", "GITHUB_EAI"})
	assert.Contains(t, stmt, "\nEXTERNAL_ACCESS_INTEGRATIONS = (PYPI_EAI, GITHUB_EAI)")
}

func TestWaitForReadyStatement(t *testing.T) {
	assert.Equal(t,
		"call system$wait_for_services(30, 'NXF_MAIN_abcd1234')",
		waitForReadyStatement("NXF_MAIN_abcd1234", 30*time.Second))
}

func TestServiceLifecycleStatements(t *testing.T) {
	assert.Equal(t, "show endpoints in service NXF_MAIN_abcd1234",
		showEndpointsStatement("NXF_MAIN_abcd1234"))
	assert.Equal(t, "drop service if exists NXF_MAIN_abcd1234",
		dropJobStatement("NXF_MAIN_abcd1234"))
}

func TestSessionTagStatements(t *testing.T) {
	tag := `{"NEXTFLOW_JOB_TYPE":"main","NEXTFLOW_RUN_ID":"abcd1234"}`
	assert.Equal(t, "alter session set query_tag = '"+tag+"'", tagSessionStatement(tag))
	assert.Equal(t, "alter session unset query_tag", untagSessionStatement)
}

func TestPutStatement(t *testing.T) {
	assert.Equal(t, "PUT file:///tmp/x.tar.gz @stage/workdir/abcd1234",
		putStatement("/tmp/x.tar.gz", "@stage/workdir/abcd1234"))
}

func TestEndpointHost(t *testing.T) {
	assert.Equal(t, "myacct.snowflakecomputing.com", Options{Account: "myacct"}.EndpointHost())
	assert.Equal(t, "override.example.com",
		Options{Account: "myacct", Host: "override.example.com"}.EndpointHost())
}
