package highlevel

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"time"
)

// Exporter is implemented by every resource type. ExportData returns the plain
// field mapping used when a resource is passed as a request parameter.
type Exporter interface {
	ExportData() map[string]any
}

// extractValue unwraps Exporters into their field mappings, recursing into
// sequences and mappings. Any slice becomes []any and any string-keyed map
// becomes map[string]any; scalars pass through unchanged.
func extractValue(value any) any {
	if value == nil {
		return nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil
	}

	switch v := value.(type) {
	case Exporter:
		return extractValue(v.ExportData())
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = extractValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = extractValue(item)
		}
		return out
	case []byte, string, bool, json.Number, time.Time:
		return v
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = extractValue(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return value
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = extractValue(iter.Value().Interface())
		}
		return out
	}

	return value
}

// copyParams returns a deep copy of an extracted parameter mapping.
func copyParams(params map[string]any) map[string]any {
	if params == nil {
		return map[string]any{}
	}
	return copyValue(params).(map[string]any)
}

func copyValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = copyValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = copyValue(item)
		}
		return out
	case []byte:
		return append([]byte(nil), v...)
	}
	return value
}

// encodeQuery serializes parameters for GET and DELETE. Sequences repeat the
// key, nested mappings are JSON-encoded and nil values are skipped.
func encodeQuery(params map[string]any) (url.Values, error) {
	query := url.Values{}
	for key, value := range params {
		switch v := value.(type) {
		case nil:
			continue
		case []any:
			for _, item := range v {
				if item == nil {
					continue
				}
				s, err := queryString(item)
				if err != nil {
					return nil, fmt.Errorf("failed to encode query parameter %q: %w", key, err)
				}
				query.Add(key, s)
			}
		default:
			s, err := queryString(v)
			if err != nil {
				return nil, fmt.Errorf("failed to encode query parameter %q: %w", key, err)
			}
			query.Set(key, s)
		}
	}
	return query, nil
}

func queryString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case time.Time:
		return v.Format(time.RFC3339), nil
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return fmt.Sprint(value), nil
}
