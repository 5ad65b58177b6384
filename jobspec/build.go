package jobspec

import (
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/runid"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/runtime/util"
)

const (
	containerName     = "nf-main"
	workDirVolumeName = "workdir"
	projectMountPath  = "/mnt/project"

	// WorkDirMountPath is where the run's work-directory stage is mounted
	// inside the container; the uploaded project archive lives there too.
	WorkDirMountPath = "/mnt/workdir"

	// StreamEndpointName and StreamEndpointPort describe the public
	// endpoint the in-container PTY server listens on.
	StreamEndpointName = "wss"
	StreamEndpointPort = 8765
)

// Params are the inputs to Build. Volumes comes from the project's
// stage-mount declarations, ArtifactName from the uploaded archive.
type Params struct {
	Token        runid.ID
	Profile      string
	Image        string
	WorkDirStage string
	ArtifactName string
	Volumes      VolumeConfig
}

// Build constructs the service specification for a run: one container that
// unpacks the uploaded project and executes the workflow engine under the
// PTY server, with the work-directory volume appended to the declared
// stage mounts and the streaming endpoint exposed.
//
// Build is pure. Calling it twice with equal Params yields equal
// specifications, and Params.Volumes is left untouched.
func Build(p Params) Specification {
	volumes := p.Volumes.WithWorkDir(p.WorkDirStage, p.Token)

	return Specification{
		Spec: Spec{
			Containers: []Container{{
				Name:         containerName,
				Image:        p.Image,
				Command:      []string{"/bin/bash", "-c", runScript(p)},
				VolumeMounts: volumes.VolumeMounts,
			}},
			Volumes: volumes.Volumes,
			Endpoints: []Endpoint{{
				Name:   StreamEndpointName,
				Port:   StreamEndpointPort,
				Public: true,
			}},
		},
	}
}

// runScript produces the container entry script: unpack the uploaded
// archive into the project directory, then hand the workflow invocation to
// the PTY server so its output is available on the streaming endpoint.
func runScript(p Params) string {
	run := util.StringList{
		"python3 /app/pty_server.py --",
		"nextflow run .",
		"-name " + p.Token.String(),
		"-ansi-log true",
	}
	if p.Profile != "" {
		run.Add("-profile " + p.Profile)
	}
	run.Add(
		"-work-dir "+WorkDirMountPath,
		"-with-report "+WorkDirMountPath+"/report.html",
		"-with-trace "+WorkDirMountPath+"/trace.txt",
		"-with-timeline "+WorkDirMountPath+"/timeline.html",
	)

	var script util.StringList
	script.Sprintf("mkdir -p %s", projectMountPath)
	script.Sprintf("cd %s", projectMountPath)
	script.Sprintf("tar -zxf %s/%s", WorkDirMountPath, p.ArtifactName)
	script.Add(run.Join(" "))
	return script.Join("\n")
}
