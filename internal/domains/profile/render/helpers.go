package render

import (
	"fmt"
	"html/template"
	"strings"
)

// Funcs are the predicate helpers available to profile templates. They
// replace the html/template builtins of the same name so "and" and "not"
// always yield plain booleans.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"contains": contains,
		"and":      and,
		"not":      not,
	}
}

// contains reports whether s contains sub. Non-string or empty values are false.
func contains(s, sub interface{}) bool {
	str, ok := asString(s)
	if !ok || str == "" {
		return false
	}
	needle, ok := asString(sub)
	if !ok {
		return false
	}
	return strings.Contains(str, needle)
}

func and(values ...interface{}) bool {
	if len(values) == 0 {
		return false
	}
	for _, v := range values {
		if !truth(v) {
			return false
		}
	}
	return true
}

func not(v interface{}) bool {
	return !truth(v)
}

func truth(v interface{}) bool {
	t, _ := template.IsTrue(v)
	return t
}

func asString(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case template.URL:
		return string(s), true
	case template.HTML:
		return string(s), true
	case fmt.Stringer:
		return s.String(), true
	default:
		return "", false
	}
}
