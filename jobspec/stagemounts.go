package jobspec

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/runid"
)

// ErrInvalidStageMount is returned when a stage mount expression doesn't
// have the form "stage:/mount/path".
var ErrInvalidStageMount = errors.New("invalid stage mount expression")

// VolumeConfig is an index-aligned pair of volume and mount lists: entry i
// of Volumes is mounted at entry i of VolumeMounts.
type VolumeConfig struct {
	Volumes      []Volume
	VolumeMounts []VolumeMount
}

// ParseStageMounts parses a comma-separated list of "stage:/mount/path"
// expressions, as declared by the snowflake.stageMounts config value.
// Entry i produces a volume named "vol-<i+1>" sourced from "@<stage>" and
// a mount of that volume at the given path.
func ParseStageMounts(expr string) (VolumeConfig, error) {
	var config VolumeConfig
	for i, mount := range strings.Split(expr, ",") {
		parts := strings.Split(mount, ":")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return VolumeConfig{}, errors.Wrapf(ErrInvalidStageMount,
				"stage mount '%s' must have the form 'stage:/mount/path'", mount)
		}
		name := "vol-" + strconv.Itoa(i+1)
		config.Volumes = append(config.Volumes, Volume{
			Name:   name,
			Source: "@" + parts[0],
		})
		config.VolumeMounts = append(config.VolumeMounts, VolumeMount{
			Name:      name,
			MountPath: parts[1],
		})
	}
	return config, nil
}

// WithWorkDir returns a copy of the volume config with the run's
// work-directory volume and mount appended. The receiver is not modified,
// so a config can safely be used for more than one build.
func (vc VolumeConfig) WithWorkDir(workDirStage string, token runid.ID) VolumeConfig {
	volumes := make([]Volume, len(vc.Volumes), len(vc.Volumes)+1)
	copy(volumes, vc.Volumes)
	mounts := make([]VolumeMount, len(vc.VolumeMounts), len(vc.VolumeMounts)+1)
	copy(mounts, vc.VolumeMounts)

	return VolumeConfig{
		Volumes: append(volumes, Volume{
			Name:   workDirVolumeName,
			Source: workDirStage + "/" + token.String() + "/",
		}),
		VolumeMounts: append(mounts, VolumeMount{
			Name:      workDirVolumeName,
			MountPath: WorkDirMountPath,
		}),
	}
}
