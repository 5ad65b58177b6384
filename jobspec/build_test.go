package jobspec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/runid"
)

func buildParams(t *testing.T) Params {
	config, err := ParseStageMounts("refdata:/mnt/refdata")
	require.NoError(t, err)
	return Params{
		Token:        runid.ID("fx3k9q2a"),
		Profile:      "cloud",
		Image:        "/db/schema/repo/nf-snowflake:1.0",
		WorkDirStage: "@nxf_work",
		ArtifactName: "project.tar.gz",
		Volumes:      config,
	}
}

func TestBuildSpecification(t *testing.T) {
	spec := Build(buildParams(t))
	require.NoError(t, spec.Validate())

	require.Len(t, spec.Spec.Containers, 1)
	c := spec.Spec.Containers[0]
	assert.Equal(t, "nf-main", c.Name)
	assert.Equal(t, "/db/schema/repo/nf-snowflake:1.0", c.Image)
	require.Len(t, c.Command, 3)
	assert.Equal(t, []string{"/bin/bash", "-c"}, c.Command[:2])

	script := c.Command[2]
	assert.Contains(t, script, "mkdir -p /mnt/project")
	assert.Contains(t, script, "tar -zxf /mnt/workdir/project.tar.gz")
	assert.Contains(t, script, "python3 /app/pty_server.py -- nextflow run .")
	assert.Contains(t, script, "-name fx3k9q2a")
	assert.Contains(t, script, "-profile cloud")
	assert.Contains(t, script, "-work-dir /mnt/workdir")
	assert.Contains(t, script, "-with-report /mnt/workdir/report.html")
	assert.Contains(t, script, "-with-trace /mnt/workdir/trace.txt")
	assert.Contains(t, script, "-with-timeline /mnt/workdir/timeline.html")

	// declared stage mount plus appended workdir pair
	require.Len(t, spec.Spec.Volumes, 2)
	assert.Equal(t, Volume{Name: "workdir", Source: "@nxf_work/fx3k9q2a/"}, spec.Spec.Volumes[1])
	require.Len(t, c.VolumeMounts, 2)
	assert.Equal(t, VolumeMount{Name: "workdir", MountPath: "/mnt/workdir"}, c.VolumeMounts[1])

	require.Len(t, spec.Spec.Endpoints, 1)
	assert.Equal(t, Endpoint{Name: "wss", Port: 8765, Public: true}, spec.Spec.Endpoints[0])
}

func TestBuildOmitsProfileWhenUnset(t *testing.T) {
	p := buildParams(t)
	p.Profile = ""
	script := Build(p).Spec.Containers[0].Command[2]
	assert.NotContains(t, script, "-profile")
}

func TestBuildIsDeterministic(t *testing.T) {
	p := buildParams(t)

	first, err := Build(p).Render()
	require.NoError(t, err)
	second, err := Build(p).Render()
	require.NoError(t, err)

	assert.Equal(t, first, second, "equal inputs must render byte-identical documents")
	// and the inputs were not consumed by building
	assert.Len(t, p.Volumes.Volumes, 1)
}

func TestRenderFieldNames(t *testing.T) {
	data, err := Build(buildParams(t)).Render()
	require.NoError(t, err)

	doc := string(data)
	assert.True(t, strings.HasPrefix(doc, "spec:"))
	assert.Contains(t, doc, "volumeMounts:")
	assert.Contains(t, doc, "mountPath:")
	assert.Contains(t, doc, "endpoints:")
	assert.NotContains(t, doc, "volumemounts", "field names must keep camelCase in YAML")
}

func TestValidateCatchesDanglingMount(t *testing.T) {
	spec := Build(buildParams(t))
	spec.Spec.Volumes = spec.Spec.Volumes[:1] // drop the workdir volume
	err := spec.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workdir")
}

func TestValidateRequiresImage(t *testing.T) {
	p := buildParams(t)
	p.Image = ""
	require.Error(t, Build(p).Validate())
}
