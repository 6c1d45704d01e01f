package parser

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/barbouse/packages/filter"
)

// Syntax characters of the request file format.
const (
	HeaderMarker    = '#'
	MethodSeparator = '^'
	FilterMarker    = '|'
	HeaderDelimiter = ':'
)

// RequestDefinition is a parsed request file, ready to execute.
// It is not modified after Parse returns.
type RequestDefinition struct {
	File    string
	Method  string
	URL     string
	Headers map[string]string
	// FilterExpr is the templated filter source; Filter its compiled form.
	FilterExpr string
	Filter     filter.Filter
	Body       string
	// Ignored holds header-block lines that were neither headers nor filters.
	Ignored []IgnoredLine
	// Unresolved lists placeholder names in the URL and header values that
	// had no variable, in order of first appearance. Values substituted in
	// are not inspected.
	Unresolved []string
}

// HasBody reports whether the request carries a non-blank body.
func (r *RequestDefinition) HasBody() bool {
	return strings.TrimSpace(r.Body) != ""
}

// HasFilter reports whether the file declared a filter.
func (r *RequestDefinition) HasFilter() bool {
	return r.Filter != nil
}

// IgnoredLine is a metadata line the parser skipped.
type IgnoredLine struct {
	Line int
	Text string
}

// FormatError reports a malformed request file.
type FormatError struct {
	File    string
	Line    int
	Message string
}

func (e *FormatError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// FilterCompileError reports a filter expression that failed to compile.
type FilterCompileError struct {
	File string
	Line int
	Expr string
	Err  error
}

func (e *FilterCompileError) Error() string {
	if e.File == "" && e.Line == 0 {
		return fmt.Sprintf("invalid filter %q: %v", e.Expr, e.Err)
	}
	loc := fmt.Sprintf("line %d", e.Line)
	if e.File != "" {
		loc = fmt.Sprintf("%s:%d", e.File, e.Line)
	}
	return fmt.Sprintf("%s: invalid filter %q: %v", loc, e.Expr, e.Err)
}

func (e *FilterCompileError) Unwrap() error {
	return e.Err
}
