package filter

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Engine names accepted by NewCompiler.
const (
	EngineJQ       = "jq"
	EngineJMESPath = "jmespath"
	EngineGJSON    = "gjson"

	DefaultEngine = EngineJQ
)

// ErrEmptyExpression is returned when compiling a blank expression.
var ErrEmptyExpression = errors.New("empty filter expression")

// Filter is a compiled expression.
type Filter interface {
	// Apply runs the filter against a decoded JSON value and returns every
	// value it produces.
	Apply(value any) ([]any, error)
	// String returns the source expression.
	String() string
}

// Compiler compiles expressions into filters.
type Compiler interface {
	Compile(expr string) (Filter, error)
}

// CompilerFunc adapts a function to the Compiler interface.
type CompilerFunc func(expr string) (Filter, error)

func (f CompilerFunc) Compile(expr string) (Filter, error) {
	return f(expr)
}

var engines = map[string]CompilerFunc{
	EngineJQ:       compileJQ,
	EngineJMESPath: compileJMESPath,
	EngineGJSON:    compileGJSON,
}

// NewCompiler returns the compiler for the named engine. An empty name
// selects DefaultEngine.
func NewCompiler(engine string) (Compiler, error) {
	name := strings.ToLower(strings.TrimSpace(engine))
	if name == "" {
		name = DefaultEngine
	}
	compile, ok := engines[name]
	if !ok {
		return nil, fmt.Errorf("unknown filter engine %q (available: %s)", engine, strings.Join(Engines(), ", "))
	}
	return CompilerFunc(func(expr string) (Filter, error) {
		if strings.TrimSpace(expr) == "" {
			return nil, ErrEmptyExpression
		}
		return compile(expr)
	}), nil
}

// Engines lists the available engine names, sorted.
func Engines() []string {
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
