package filter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

type gjsonFilter struct {
	path string
}

func compileGJSON(expr string) (Filter, error) {
	return &gjsonFilter{path: expr}, nil
}

// Apply yields no results when the path does not exist. Numbers in the
// match keep their source text.
func (f *gjsonFilter) Apply(value any) ([]any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encoding value for gjson: %w", err)
	}
	result := gjson.GetBytes(data, f.path)
	if !result.Exists() {
		return []any{}, nil
	}
	return []any{rawValue(result)}, nil
}

func rawValue(result gjson.Result) any {
	dec := json.NewDecoder(strings.NewReader(result.Raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return result.Value()
	}
	return v
}

func (f *gjsonFilter) String() string {
	return f.path
}
