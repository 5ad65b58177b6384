package config

// ReplaceObjects traverses the config object and replaces every object
// carrying a '$' + key property with the value returned from
// replacement(obj). Load uses this for {$env: VAR} substitution, so
// secrets like the connection password can live outside the file.
func ReplaceObjects(
	config map[string]interface{},
	key string,
	replacement func(obj map[string]interface{}) (interface{}, error),
) error {
	_, err := replaceIn(key, replacement, config)
	return err
}

func replaceIn(
	key string,
	replacement func(obj map[string]interface{}) (interface{}, error),
	val interface{},
) (interface{}, error) {
	switch val := val.(type) {
	case []interface{}:
		for i, v := range val {
			v, err := replaceIn(key, replacement, v)
			if err != nil {
				return nil, err
			}
			val[i] = v
		}
	case map[string]interface{}:
		if _, ok := val["$"+key].(string); ok {
			return replacement(val)
		}
		for k, v := range val {
			v, err := replaceIn(key, replacement, v)
			if err != nil {
				return nil, err
			}
			val[k] = v
		}
	}
	return val, nil
}
