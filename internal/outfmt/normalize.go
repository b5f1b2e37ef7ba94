package outfmt

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// toPlain converts v into plain JSON values (maps, slices, float64, string,
// bool, nil) so jq, YAML and JSON lines all see the same field names. A nil
// slice becomes an empty list.
func toPlain(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return decodePlain(t)
	case []byte:
		return decodePlain(t)
	}

	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice && rv.IsNil() {
		return []any{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode output: %w", err)
	}
	return decodePlain(data)
}

func decodePlain(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return out, nil
}
