package tool

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeStateVariants returns the title, upper and lower case forms of a
// state name, or ["ALL"] when it is empty.
func NormalizeStateVariants(state string) []string {
	state = strings.TrimSpace(state)
	if state == "" {
		return []string{allStates}
	}
	full := cases.Title(language.English).String(state)
	return []string{full, strings.ToUpper(full), strings.ToLower(full)}
}

// ParseStateInput accepts a list, a string holding a list literal such as
// "['Florida', 'FLORIDA']", or a plain string, which is expanded to its case
// variants. Anything else, including an absent value, means all states. given reports whether the caller sent a
// usable value.
func ParseStateInput(raw interface{}) (states []string, given bool) {
	switch v := raw.(type) {
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				states = append(states, s)
			}
		}
	case []string:
		states = append(states, v...)
	case string:
		if v == "" {
			break
		}
		if list, ok := parseListLiteral(v); ok {
			states = list
		} else if strings.TrimSpace(v) != "" {
			states = NormalizeStateVariants(v)
		}
	}

	if len(states) == 0 {
		return []string{allStates}, false
	}
	return states, true
}

// parseListLiteral reads ['a', "b"] style lists of quoted strings
func parseListLiteral(s string) ([]string, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, false
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return []string{}, true
	}

	var out []string
	for _, part := range strings.Split(body, ",") {
		part = strings.TrimSpace(part)
		if len(part) < 2 {
			return nil, false
		}
		quote := part[0]
		if (quote != '\'' && quote != '"') || part[len(part)-1] != quote {
			return nil, false
		}
		out = append(out, part[1:len(part)-1])
	}
	return out, true
}
