package stages

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Shape selects the top-level JSON layout a stage accepts.
type Shape string

const (
	// ShapeObject expects {"<key>": [...]}.
	ShapeObject Shape = "object"
	// ShapeArray expects a bare [...].
	ShapeArray Shape = "array"
	// ShapeAuto accepts either, chosen by the first character of the payload.
	ShapeAuto Shape = "auto"
)

// ParseShape validates a configured shape name. Empty means ShapeObject.
func ParseShape(s string) (Shape, error) {
	switch Shape(strings.ToLower(strings.TrimSpace(s))) {
	case "", ShapeObject:
		return ShapeObject, nil
	case ShapeArray:
		return ShapeArray, nil
	case ShapeAuto:
		return ShapeAuto, nil
	default:
		return "", fmt.Errorf("unknown response shape %q (want object, array or auto)", s)
	}
}

// decodeList unmarshals payload into out, which must point to a slice.
// With ShapeObject the list is read from the named key.
func decodeList(payload string, shape Shape, key string, out any) error {
	if shape == ShapeAuto {
		shape = ShapeObject
		if strings.HasPrefix(strings.TrimSpace(payload), "[") {
			shape = ShapeArray
		}
	}

	raw := json.RawMessage(payload)
	if shape == ShapeObject {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return fmt.Errorf("decode %q object: %w", key, err)
		}
		field, ok := envelope[key]
		if !ok || string(field) == "null" {
			return fmt.Errorf("missing %q key", key)
		}
		raw = field
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %q list: %w", key, err)
	}
	return nil
}

// decodeItems decodes every list item into a T. Each item must be a JSON
// object carrying the text keys as non-blank strings and the present keys
// with any value.
func decodeItems[T any](items []json.RawMessage, noun string, text []string, present []string) ([]T, error) {
	out := make([]T, 0, len(items))
	for i, item := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
			return nil, fmt.Errorf("%s %d is not an object", noun, i+1)
		}
		for _, key := range text {
			raw, ok := fields[key]
			if !ok {
				return nil, fmt.Errorf("%s %d missing %q", noun, i+1, key)
			}
			var value string
			if err := json.Unmarshal(raw, &value); err != nil {
				return nil, fmt.Errorf("%s %d field %q is not a string", noun, i+1, key)
			}
			if strings.TrimSpace(value) == "" {
				return nil, fmt.Errorf("%s %d has empty %q", noun, i+1, key)
			}
		}
		for _, key := range present {
			if _, ok := fields[key]; !ok {
				return nil, fmt.Errorf("%s %d missing %q", noun, i+1, key)
			}
		}
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			return nil, fmt.Errorf("decode %s %d: %w", noun, i+1, err)
		}
		out = append(out, v)
	}
	return out, nil
}
