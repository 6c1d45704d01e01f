// Package filter abstracts the query engine applied to JSON responses.
//
// A Compiler turns an expression into a Filter; a Filter maps one decoded
// JSON value to a sequence of results. Three engines are available:
//   - jq: jq syntax via gojq (the default)
//   - jmespath: JMESPath expressions
//   - gjson: GJSON path syntax
//
// Values passed to Apply are the ones produced by encoding/json decoding into
// any (map[string]any, []any, string, bool, nil and numbers).
package filter
