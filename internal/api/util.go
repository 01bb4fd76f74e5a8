package api

import (
	"encoding/json"
)

// normalizeTimestamps recursively renames GORM timestamp keys from CamelCase
// (CreatedAt, UpdatedAt) to snake_case so clients always see snake_case.
func normalizeTimestamps(v interface{}) interface{} {
	switch vv := v.(type) {
	case map[string]interface{}:
		for k, val := range vv {
			vv[k] = normalizeTimestamps(val)
		}
		for camel, snake := range timestampKeys {
			if val, ok := vv[camel]; ok {
				vv[snake] = val
				delete(vv, camel)
			}
		}
		return vv
	case []interface{}:
		for i := range vv {
			vv[i] = normalizeTimestamps(vv[i])
		}
		return vv
	default:
		return v
	}
}

var timestampKeys = map[string]string{
	"CreatedAt": "created_at",
	"UpdatedAt": "updated_at",
}

// MarshalIntoSnakeTimestamps round-trips v through JSON and normalizes the
// timestamp keys of stored records.
func MarshalIntoSnakeTimestamps(v interface{}) (interface{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return normalizeTimestamps(out), nil
}
