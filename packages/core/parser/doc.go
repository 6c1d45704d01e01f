// Package parser reads barbouse request files.
//
// A request file is a block of '#'-prefixed header lines followed by an
// optional body:
//
//	#POST^https://api.example.com/users?team={TEAM}
//	#Content-Type: application/json
//	#Authorization: Bearer {TOKEN}
//	#|.id
//
//	{"name": "alice"}
//
// The first line carries the method and URL separated by '^'. Later header
// lines define request headers ("Name: value") or the response filter
// ("|expression"). The body starts at the first line without the marker and
// is kept verbatim. {NAME} placeholders in the URL, header values and filter
// are substituted from the variables passed to Parse; the body is never
// templated.
package parser
