package env

import "strings"

// Substitute replaces every {NAME} placeholder in text whose NAME is a key of
// vars with its value. Unknown placeholders are left untouched.
//
// The input is scanned once, so a substituted value is never expanded again
// and the result does not depend on the iteration order of vars.
func Substitute(text string, vars map[string]string) string {
	if len(vars) == 0 || !strings.Contains(text, "{") {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))

	rest := text
	for {
		name, before, after, ok := nextPlaceholder(rest)
		if !ok {
			b.WriteString(rest)
			break
		}
		b.WriteString(before)
		if val, found := vars[name]; found {
			b.WriteString(val)
		} else {
			b.WriteString("{" + name + "}")
		}
		rest = after
	}

	return b.String()
}

// Placeholders returns the names of all {NAME} placeholders in text, in
// order of appearance. Duplicates are kept.
func Placeholders(text string) []string {
	var names []string
	rest := text
	for {
		name, _, after, ok := nextPlaceholder(rest)
		if !ok {
			return names
		}
		names = append(names, name)
		rest = after
	}
}

// Unresolved returns the placeholder names in text that have no value in vars.
func Unresolved(text string, vars map[string]string) []string {
	var missing []string
	seen := make(map[string]bool)
	for _, name := range Placeholders(text) {
		if _, ok := vars[name]; ok || seen[name] {
			continue
		}
		seen[name] = true
		missing = append(missing, name)
	}
	return missing
}

// nextPlaceholder finds the first {NAME} in s. A '{' that is followed by
// another '{' before any '}' is treated as literal text.
func nextPlaceholder(s string) (name, before, after string, ok bool) {
	offset := 0
	for {
		open := strings.IndexByte(s[offset:], '{')
		if open < 0 {
			return "", "", "", false
		}
		open += offset

		end := strings.IndexAny(s[open+1:], "{}")
		if end < 0 {
			return "", "", "", false
		}
		end += open + 1

		if s[end] == '{' {
			offset = end
			continue
		}
		if end == open+1 {
			// "{}" is not a placeholder
			offset = end + 1
			continue
		}
		return s[open+1 : end], s[:open], s[end+1:], true
	}
}
