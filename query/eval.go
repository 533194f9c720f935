package query

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

type filter struct {
	field string
	op    Op
	value any
}

type sortKey struct {
	field     string
	direction Direction
}

// matches evaluates one filter against a metadata map. Dotted field names
// descend into nested maps.
func (f filter) matches(meta map[string]any) bool {
	value, exists := lookupField(meta, f.field)

	switch f.op {
	case Exists:
		want := true
		if b, ok := f.value.(bool); ok {
			want = b
		}
		return exists == want
	case Eq:
		return exists && compareValues(value, f.value) == 0
	case Ne:
		return !exists || compareValues(value, f.value) != 0
	case Gt:
		return exists && compareValues(value, f.value) > 0
	case Gte:
		return exists && compareValues(value, f.value) >= 0
	case Lt:
		return exists && compareValues(value, f.value) < 0
	case Lte:
		return exists && compareValues(value, f.value) <= 0
	case In:
		return exists && memberOf(value, f.value)
	case Nin:
		return !exists || !memberOf(value, f.value)
	case Contains:
		return exists && containsValue(value, f.value)
	}
	return false
}

// lookupField resolves a possibly dotted path against nested metadata maps.
func lookupField(meta map[string]any, field string) (any, bool) {
	if meta == nil {
		return nil, false
	}
	parts := strings.Split(field, ".")
	var current any = meta
	for _, part := range parts {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// compareValues orders two schemaless values: numerically when both are
// numeric, chronologically when both parse as times, lexically otherwise.
func compareValues(a, b any) int {
	if an, aok := toFloat(a); aok {
		if bn, bok := toFloat(b); bok {
			switch {
			case an < bn:
				return -1
			case an > bn:
				return 1
			}
			return 0
		}
	}
	if at, aok := toTime(a); aok {
		if bt, bok := toTime(b); bok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			}
			return 0
		}
	}
	return strings.Compare(stringify(a), stringify(b))
}

func toFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case int:
		return float64(typed), true
	case int8:
		return float64(typed), true
	case int16:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case uint:
		return float64(typed), true
	case uint64:
		return float64(typed), true
	case float32:
		return float64(typed), true
	case float64:
		return typed, true
	}
	return 0, false
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func toTime(value any) (time.Time, bool) {
	switch typed := value.(type) {
	case time.Time:
		return typed, true
	case string:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, typed); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func stringify(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

// memberOf reports whether value equals any element of candidates.
func memberOf(value, candidates any) bool {
	for _, candidate := range asSlice(candidates) {
		if compareValues(value, candidate) == 0 {
			return true
		}
	}
	return false
}

// containsValue handles the Contains operator: substring on strings, element
// membership on list fields.
func containsValue(value, needle any) bool {
	switch typed := value.(type) {
	case string:
		return strings.Contains(typed, stringify(needle))
	default:
		for _, element := range asSlice(value) {
			if compareValues(element, needle) == 0 {
				return true
			}
		}
	}
	return false
}

func asSlice(value any) []any {
	if value == nil {
		return nil
	}
	if typed, ok := value.([]any); ok {
		return typed
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
