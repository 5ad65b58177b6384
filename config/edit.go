package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// ErrNoSuchKey is returned from Get when the key path does not exist in
// the config file.
var ErrNoSuchKey = errors.New("no such config key")

// Get returns the value at the dotted key path in the config file, e.g.
// "connection.account".
func Get(filename, key string) (interface{}, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file '%s'", filename)
	}
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config file '%s'", filename)
	}
	raw = convertSimpleJSONTypes(raw)

	node := raw
	for _, part := range strings.Split(key, ".") {
		obj, ok := node.(map[string]interface{})
		if !ok {
			return nil, errors.Wrapf(ErrNoSuchKey, "'%s'", key)
		}
		node, ok = obj[part]
		if !ok {
			return nil, errors.Wrapf(ErrNoSuchKey, "'%s'", key)
		}
	}
	return node, nil
}

// Set writes value at the dotted key path in the config file, creating
// the file and any intermediate objects as needed. The file is written
// with owner-only permissions since it may hold credentials.
func Set(filename, key string, value interface{}) error {
	root := map[string]interface{}{}
	if data, err := os.ReadFile(filename); err == nil {
		var raw interface{}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return errors.Wrapf(err, "failed to parse config file '%s'", filename)
		}
		if raw != nil {
			converted, ok := convertSimpleJSONTypes(raw).(map[string]interface{})
			if !ok {
				return errors.Errorf("expected top-level config value in '%s' to be an object", filename)
			}
			root = converted
		}
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to read config file '%s'", filename)
	}

	parts := strings.Split(key, ".")
	node := root
	for _, part := range parts[:len(parts)-1] {
		child, ok := node[part].(map[string]interface{})
		if !ok {
			child = map[string]interface{}{}
			node[part] = child
		}
		node = child
	}
	node[parts[len(parts)-1]] = value

	data, err := yaml.Marshal(root)
	if err != nil {
		return errors.Wrap(err, "failed to render config file")
	}
	if err := os.WriteFile(filename, data, 0600); err != nil {
		return errors.Wrapf(err, "failed to write config file '%s'", filename)
	}
	return nil
}

// ParseValue interprets a command-line value the way YAML would, so
// "30" becomes an integer and "true" a boolean, while anything else
// stays a string.
func ParseValue(raw string) interface{} {
	var value interface{}
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		return raw
	}
	if value == nil {
		return raw
	}
	return convertSimpleJSONTypes(value)
}
