package mdc

import (
	"strings"
	"unicode"
)

// ParseAttributes parses an MDC attribute run without its surrounding braces:
// `.class #id key="value" key=value :bound="expr" flag`. It returns the
// parsed props and whether the input was well formed. Repeated `.class`
// entries accumulate into a space-joined class prop.
func ParseAttributes(input string) (map[string]any, bool) {
	attrs := map[string]any{}
	rest := strings.TrimSpace(input)

	for rest != "" {
		var token string
		var ok bool
		token, rest, ok = nextToken(rest)
		if !ok {
			return nil, false
		}

		switch {
		case strings.HasPrefix(token, "."):
			name := token[1:]
			if name == "" {
				return nil, false
			}
			appendClass(attrs, name)
		case strings.HasPrefix(token, "#"):
			if len(token) == 1 {
				return nil, false
			}
			attrs["id"] = token[1:]
		default:
			key, value, hasValue := splitKeyValue(token)
			if key == "" {
				return nil, false
			}
			if !hasValue {
				attrs[key] = true
				continue
			}
			attrs[key] = value
		}
	}

	return attrs, true
}

// nextToken peels one attribute token off input, honoring quoted values so
// embedded spaces survive.
func nextToken(input string) (string, string, bool) {
	input = strings.TrimLeftFunc(input, unicode.IsSpace)
	if input == "" {
		return "", "", true
	}

	var (
		quote byte
		i     int
	)
	for i = 0; i < len(input); i++ {
		c := input[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		if c == '"' || c == '\'' {
			quote = c
			continue
		}
		if unicode.IsSpace(rune(c)) {
			break
		}
	}
	if quote != 0 {
		return "", "", false
	}
	return input[:i], strings.TrimLeftFunc(input[i:], unicode.IsSpace), true
}

func splitKeyValue(token string) (string, string, bool) {
	eq := strings.IndexByte(token, '=')
	if eq < 0 {
		if !validAttrName(token) {
			return "", "", false
		}
		return token, "", false
	}

	key := token[:eq]
	if !validAttrName(key) {
		return "", "", false
	}

	value := token[eq+1:]
	if len(value) >= 2 {
		if (value[0] == '"' && value[len(value)-1] == '"') || (value[0] == '\'' && value[len(value)-1] == '\'') {
			value = value[1 : len(value)-1]
		}
	}
	return key, value, true
}

// validAttrName accepts plain names plus the `:name` binding prefix.
func validAttrName(name string) bool {
	if name == "" {
		return false
	}
	if name[0] == ':' {
		name = name[1:]
		if name == "" {
			return false
		}
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_':
		default:
			return false
		}
	}
	first := name[0]
	return (first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z') || first == '_'
}

func appendClass(attrs map[string]any, name string) {
	existing, _ := attrs["class"].(string)
	if existing == "" {
		attrs["class"] = name
		return
	}
	attrs["class"] = existing + " " + name
}

// MergeAttributes overlays src onto dst, accumulating class values instead of
// replacing them. dst wins on other conflicting keys.
func MergeAttributes(dst, src map[string]any) map[string]any {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = map[string]any{}
	}
	for key, value := range src {
		if key == "class" {
			if name, ok := value.(string); ok && name != "" {
				appendClass(dst, name)
			}
			continue
		}
		if _, exists := dst[key]; !exists {
			dst[key] = value
		}
	}
	return dst
}
