package filter

import (
	"math/big"

	"github.com/jmespath/go-jmespath"
)

type jmespathFilter struct {
	expr string
	jp   *jmespath.JMESPath
}

func compileJMESPath(expr string) (Filter, error) {
	jp, err := jmespath.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &jmespathFilter{expr: expr, jp: jp}, nil
}

// Apply always yields exactly one result; a missing match is null.
func (f *jmespathFilter) Apply(value any) ([]any, error) {
	result, err := f.jp.Search(floatNumbers(value))
	if err != nil {
		return nil, err
	}
	return []any{result}, nil
}

func (f *jmespathFilter) String() string {
	return f.expr
}

// floatNumbers converts integers, big ones included, to float64, the only
// numeric type JMESPath literals compare against.
func floatNumbers(value any) any {
	switch v := value.(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case *big.Int:
		f, _ := new(big.Float).SetInt(v).Float64()
		return f
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = floatNumbers(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = floatNumbers(item)
		}
		return out
	default:
		return value
	}
}
