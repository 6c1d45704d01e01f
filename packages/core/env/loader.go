package env

import (
	"os"
	"strings"
)

// Environ snapshots the process environment into a map.
func Environ() map[string]string {
	return FromList(os.Environ())
}

// FromList converts KEY=value pairs into a map. Entries without '=' are
// skipped; later duplicates win.
func FromList(pairs []string) map[string]string {
	result := make(map[string]string, len(pairs))
	for _, e := range pairs {
		key, value, found := strings.Cut(e, "=")
		if !found || key == "" {
			continue
		}
		result[key] = value
	}
	return result
}

// Merge layers variable maps; keys from later sources overwrite earlier ones.
func Merge(sources ...map[string]string) map[string]string {
	result := make(map[string]string)
	for _, src := range sources {
		for k, v := range src {
			result[k] = v
		}
	}
	return result
}
