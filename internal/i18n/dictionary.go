package i18n

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Dictionary is a flattened, read-only mapping of dot-delimited keys to
// display strings.
type Dictionary map[string]string

// Lookup returns the value for key. Empty values count as missing so that
// an untranslated entry falls through to the next dictionary.
func (d Dictionary) Lookup(key string) (string, bool) {
	v, ok := d[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Len returns the number of entries.
func (d Dictionary) Len() int { return len(d) }

// Parse decodes a JSON language document and flattens it. The document root
// must be a JSON object.
func Parse(data []byte) (Dictionary, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding language document: %w", err)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("language document root must be an object, got %s", kindOf(raw))
	}
	return Flatten(obj), nil
}

// Flatten turns a nested JSON object into a Dictionary. Objects recurse with
// their keys joined by "."; every other value, arrays included, is a leaf
// coerced to a string.
func Flatten(obj map[string]any) Dictionary {
	out := make(Dictionary)
	flattenInto(out, "", obj)
	return out
}

func flattenInto(out Dictionary, prefix string, obj map[string]any) {
	for k, v := range obj {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if child, ok := v.(map[string]any); ok {
			flattenInto(out, key, child)
			continue
		}
		out[key] = coerce(v)
	}
}

// coerce renders a leaf the way a browser's String(v) would: arrays are
// comma-joined, null is "null".
func coerce(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			if e == nil {
				continue
			}
			parts[i] = coerce(e)
		}
		return strings.Join(parts, ",")
	case map[string]any:
		return "[object Object]"
	default:
		return fmt.Sprint(x)
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
