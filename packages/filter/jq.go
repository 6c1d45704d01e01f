package filter

import (
	"errors"

	"github.com/itchyny/gojq"
)

type jqFilter struct {
	expr string
	code *gojq.Code
}

func compileJQ(expr string) (Filter, error) {
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, err
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, err
	}
	return &jqFilter{expr: expr, code: code}, nil
}

func (f *jqFilter) Apply(value any) ([]any, error) {
	results := []any{}
	iter := f.code.Run(value)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			var halt *gojq.HaltError
			if errors.As(err, &halt) && halt.Value() == nil {
				break
			}
			return nil, err
		}
		results = append(results, v)
	}
	return results, nil
}

func (f *jqFilter) String() string {
	return f.expr
}
