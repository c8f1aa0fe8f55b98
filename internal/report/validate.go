package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"

	genai "google.golang.org/genai"
)

// ValidationError reports the first place a payload departs from its schema.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return "report: " + e.Reason
	}
	return fmt.Sprintf("report: %s: %s", e.Path, e.Reason)
}

func invalid(path, format string, args ...any) error {
	return &ValidationError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks a decoded JSON value against s. Numbers are expected as
// json.Number (decoder with UseNumber) but float64 is accepted too.
// Optional properties that are absent or null are skipped; a required
// property that is null counts as missing.
func Validate(s *genai.Schema, v any) error {
	return validate(s, v, "")
}

func validate(s *genai.Schema, v any, path string) error {
	if s == nil {
		return nil
	}
	if v == nil {
		return invalid(path, "unexpected null")
	}
	switch s.Type {
	case genai.TypeObject:
		m, ok := v.(map[string]any)
		if !ok {
			return invalid(path, "expected object, got %s", kindOf(v))
		}
		for _, name := range s.Required {
			if val, present := m[name]; !present || val == nil {
				return invalid(join(path, name), "required field missing")
			}
		}
		// Walk in declared order so the reported path is stable.
		for _, name := range propertyNames(s) {
			val, present := m[name]
			if !present || val == nil {
				continue
			}
			if err := validate(s.Properties[name], val, join(path, name)); err != nil {
				return err
			}
		}
	case genai.TypeArray:
		items, ok := v.([]any)
		if !ok {
			return invalid(path, "expected array, got %s", kindOf(v))
		}
		for i, item := range items {
			if err := validate(s.Items, item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case genai.TypeString:
		sv, ok := v.(string)
		if !ok {
			return invalid(path, "expected string, got %s", kindOf(v))
		}
		if len(s.Enum) > 0 && !slices.Contains(s.Enum, sv) {
			return invalid(path, "value %q not in %v", sv, s.Enum)
		}
	case genai.TypeNumber, genai.TypeInteger:
		f, ok, inRange := number(v)
		if !ok {
			return invalid(path, "expected number, got %s", kindOf(v))
		}
		if !inRange || math.IsNaN(f) || math.IsInf(f, 0) {
			return invalid(path, "number out of range")
		}
		if s.Type == genai.TypeInteger && f != math.Trunc(f) {
			return invalid(path, "expected integer, got %v", f)
		}
		if s.Minimum != nil && f < *s.Minimum {
			return invalid(path, "value %v below minimum %v", f, *s.Minimum)
		}
		if s.Maximum != nil && f > *s.Maximum {
			return invalid(path, "value %v above maximum %v", f, *s.Maximum)
		}
	case genai.TypeBoolean:
		if _, ok := v.(bool); !ok {
			return invalid(path, "expected boolean, got %s", kindOf(v))
		}
	}
	return nil
}

func propertyNames(s *genai.Schema) []string {
	if len(s.PropertyOrdering) == len(s.Properties) {
		return s.PropertyOrdering
	}
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// number reports whether v is a JSON number and whether it fits a float64.
func number(v any) (float64, bool, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if errors.Is(err, strconv.ErrRange) {
			return f, true, false
		}
		return f, err == nil, err == nil
	case float64:
		return n, true, true
	}
	return 0, false, false
}

func kindOf(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number, float64:
		return "number"
	case bool:
		return "boolean"
	}
	return fmt.Sprintf("%T", v)
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
