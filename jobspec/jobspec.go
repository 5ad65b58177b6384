// Package jobspec builds the declarative service specification submitted
// to Snowpark Container Services: a single workflow container, the volumes
// it mounts and the public endpoint used for live output streaming.
//
// Everything in this package is pure data transformation, so a
// specification can be built and rendered repeatedly from the same inputs
// with byte-identical results.
package jobspec

import (
	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
)

// Specification is the top-level document submitted with CREATE SERVICE.
type Specification struct {
	Spec Spec `json:"spec"`
}

// Spec holds the service definition.
type Spec struct {
	Containers []Container `json:"containers"`
	Volumes    []Volume    `json:"volumes,omitempty"`
	Endpoints  []Endpoint  `json:"endpoints,omitempty"`
}

// Container is a single container instance in the service.
type Container struct {
	Name         string        `json:"name"`
	Image        string        `json:"image"`
	Command      []string      `json:"command,omitempty"`
	VolumeMounts []VolumeMount `json:"volumeMounts,omitempty"`
}

// VolumeMount attaches a named volume at a path inside the container.
type VolumeMount struct {
	Name      string `json:"name"`
	MountPath string `json:"mountPath"`
}

// Volume declares a named volume backed by a remote source, typically a
// stage reference like "@mystage/path/".
type Volume struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

// Endpoint exposes a container port, optionally to the public ingress.
type Endpoint struct {
	Name   string `json:"name"`
	Port   int    `json:"port"`
	Public bool   `json:"public,omitempty"`
}

// Validate checks internal consistency of the specification. In particular
// every volume mount referenced by a container must have a matching volume
// entry; the builder appends the work-directory pair itself, so this is
// checked on the final document, after that append.
func (s Specification) Validate() error {
	volumes := make(map[string]bool, len(s.Spec.Volumes))
	for _, v := range s.Spec.Volumes {
		if v.Name == "" {
			return errors.New("specification has a volume with no name")
		}
		volumes[v.Name] = true
	}
	if len(s.Spec.Containers) == 0 {
		return errors.New("specification has no containers")
	}
	for _, c := range s.Spec.Containers {
		if c.Image == "" {
			return errors.Errorf("container '%s' has no image", c.Name)
		}
		for _, m := range c.VolumeMounts {
			if !volumes[m.Name] {
				return errors.Errorf(
					"container '%s' mounts volume '%s' which is not declared",
					c.Name, m.Name,
				)
			}
		}
	}
	return nil
}

// Render serializes the specification as YAML. Map keys are emitted in
// sorted order, so rendering is deterministic for equal specifications.
func (s Specification) Render() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render service specification")
	}
	return data, nil
}
