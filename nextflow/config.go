package nextflow

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/jobspec"
)

// Config keys recognized in the tool's flat output. Unrecognized keys are
// ignored so newer nextflow plugins can add keys without breaking us.
const (
	keyComputePool  = "snowflake.computePool"
	keyWorkDirStage = "snowflake.workDirStage"
	keyStageMounts  = "snowflake.stageMounts"
)

// ErrInvalidInput is returned for a project path that doesn't exist or
// isn't a directory.
var ErrInvalidInput = errors.New("invalid project directory")

// ProjectConfig is the resolved project configuration a run is built from.
// Immutable once returned from Extract.
type ProjectConfig struct {
	ComputePool  string
	WorkDirStage string
	Volumes      jobspec.VolumeConfig
}

// ConfigParseError is returned when the tool exits non-zero or its output
// doesn't yield a usable configuration. It carries the diagnostic lines
// verbatim so they can be shown to the user.
type ConfigParseError struct {
	diagnostics []string
}

// NewConfigParseError creates a ConfigParseError from diagnostic lines.
func NewConfigParseError(diagnostics ...string) *ConfigParseError {
	return &ConfigParseError{diagnostics: diagnostics}
}

func (e *ConfigParseError) Error() string {
	msg := "failed to resolve project configuration"
	if len(e.diagnostics) > 0 {
		msg += "\n" + strings.Join(e.diagnostics, "\n")
	}
	return msg
}

// Diagnostics returns the diagnostic lines, typically the tool's stderr.
func (e *ConfigParseError) Diagnostics() []string {
	return e.diagnostics
}

// IsConfigParseError reports whether err was caused by a ConfigParseError.
func IsConfigParseError(err error) bool {
	_, ok := errors.Cause(err).(*ConfigParseError)
	return ok
}

// Extractor resolves a project's configuration by running the external
// tool and parsing its flat key/value output.
type Extractor struct {
	Tool string // binary to invoke, DefaultTool if empty
}

// Extract runs `<tool> config <projectDirName> -flat` (plus the profile,
// if given) and returns the parsed configuration. The tool is run in the
// project's parent directory so the bare directory name resolves.
//
// Failure modes: ErrInvalidInput for a bad project path, ErrToolNotFound
// when the binary is missing, and ConfigParseError when the tool exits
// non-zero (carrying its stderr) or required values are absent.
func (e Extractor) Extract(projectDir, profile string) (*ProjectConfig, error) {
	abs, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidInput, "cannot resolve '%s'", projectDir)
	}
	if info, serr := os.Stat(abs); serr != nil || !info.IsDir() {
		return nil, errors.Wrapf(ErrInvalidInput, "'%s' is not a directory", projectDir)
	}

	config := &ProjectConfig{}
	var parseErr error
	var stderrLines []string

	runner := &Runner{
		Tool: e.Tool,
		Dir:  filepath.Dir(abs),
		Stdout: func(line string) {
			if err := parseConfigLine(config, line); err != nil && parseErr == nil {
				parseErr = err
			}
		},
		Stderr: func(line string) {
			stderrLines = append(stderrLines, line)
		},
	}

	args := []string{"config", filepath.Base(abs), "-flat"}
	if profile != "" {
		args = append(args, "-profile", profile)
	}

	code, err := runner.Run(args...)
	if err != nil {
		return nil, err
	}
	if code != 0 {
		return nil, NewConfigParseError(stderrLines...)
	}
	if parseErr != nil {
		return nil, parseErr
	}

	for _, required := range []struct{ key, value string }{
		{keyComputePool, config.ComputePool},
		{keyWorkDirStage, config.WorkDirStage},
	} {
		if required.value == "" {
			return nil, NewConfigParseError(
				fmt.Sprintf("missing required config value: %s", required.key))
		}
	}
	return config, nil
}

// parseConfigLine handles one "key = value" line of flat output.
func parseConfigLine(config *ProjectConfig, line string) error {
	parts := strings.SplitN(line, " = ", 2)
	if len(parts) != 2 {
		return nil // not a key/value line
	}
	key := strings.TrimSpace(parts[0])
	value := stripQuotes(strings.TrimSpace(parts[1]))

	switch key {
	case keyComputePool:
		config.ComputePool = value
	case keyWorkDirStage:
		config.WorkDirStage = value
	case keyStageMounts:
		volumes, err := jobspec.ParseStageMounts(value)
		if err != nil {
			return err
		}
		config.Volumes = volumes
	default:
		return nil
	}
	debug("config: %s = %s", key, value)
	return nil
}

// stripQuotes removes a single layer of matching surrounding quotes.
func stripQuotes(v string) string {
	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if first == last && (first == '\'' || first == '"') {
			return v[1 : len(v)-1]
		}
	}
	return v
}
