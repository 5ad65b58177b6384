package config

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	schematypes "github.com/taskcluster/go-schematypes"
	yaml "gopkg.in/yaml.v2"
)

// Load reads the configuration file, applies environment substitution,
// validates against Schema() and returns the typed configuration with
// defaults applied.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file '%s'", filename)
	}
	config, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config file '%s' is invalid", filename)
	}
	return config, nil
}

// Parse validates and maps a YAML configuration document.
func Parse(data []byte) (*Config, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "failed to parse YAML")
	}
	// This fixes obscurities in yaml.Unmarshal where it generates
	// map[interface{}]interface{} instead of map[string]interface{}
	// credits: https://github.com/go-yaml/yaml/issues/139#issuecomment-220072190
	raw = convertSimpleJSONTypes(raw)

	root, ok := raw.(map[string]interface{})
	if !ok {
		return nil, errors.New("expected top-level config value to be an object")
	}
	if err := ReplaceObjects(root, "env", func(val map[string]interface{}) (interface{}, error) {
		return os.Getenv(val["$env"].(string)), nil
	}); err != nil {
		return nil, err
	}

	config := &Config{}
	if err := schematypes.MustMap(Schema(), root, config); err != nil {
		return nil, err
	}
	applyDefaults(config)
	return config, nil
}

func convertSimpleJSONTypes(val interface{}) interface{} {
	switch val := val.(type) {
	case []interface{}:
		r := make([]interface{}, len(val))
		for i, v := range val {
			r[i] = convertSimpleJSONTypes(v)
		}
		return r
	case map[interface{}]interface{}:
		r := make(map[string]interface{})
		for k, v := range val {
			s, ok := k.(string)
			if !ok {
				s = fmt.Sprintf("%v", k)
			}
			r[s] = convertSimpleJSONTypes(v)
		}
		return r
	case int:
		return float64(val)
	default:
		return val
	}
}
