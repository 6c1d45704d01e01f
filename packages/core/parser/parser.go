package parser

import (
	"os"
	"slices"
	"strings"

	"github.com/abdul-hamid-achik/barbouse/packages/core/env"
	"github.com/abdul-hamid-achik/barbouse/packages/filter"
)

// ParseFile reads and parses the request file at path.
func ParseFile(path string, vars map[string]string, compiler filter.Compiler) (*RequestDefinition, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(content), path, vars, compiler)
}

// Parse parses request file content. filename is only used in errors.
// vars supplies {NAME} substitutions; a nil compiler selects the default
// filter engine.
func Parse(content, filename string, vars map[string]string, compiler filter.Compiler) (*RequestDefinition, error) {
	p := &parser{
		input:    content,
		file:     filename,
		vars:     vars,
		compiler: compiler,
	}
	return p.parse()
}

type parser struct {
	input    string
	pos      int
	line     int
	file     string
	vars     map[string]string
	compiler filter.Compiler
}

// nextLine returns the next line without its terminator. ok is false at EOF.
func (p *parser) nextLine() (line string, start int, ok bool) {
	if p.pos >= len(p.input) {
		return "", p.pos, false
	}
	start = p.pos
	end := strings.IndexByte(p.input[start:], '\n')
	if end < 0 {
		p.pos = len(p.input)
		line = p.input[start:]
	} else {
		p.pos = start + end + 1
		line = p.input[start : start+end]
	}
	p.line++
	return strings.TrimSuffix(line, "\r"), start, true
}

func (p *parser) errorf(msg string) error {
	return &FormatError{File: p.file, Line: p.line, Message: msg}
}

func (p *parser) parse() (*RequestDefinition, error) {
	def := &RequestDefinition{
		File:    p.file,
		Headers: make(map[string]string),
	}

	first, _, ok := p.nextLine()
	if !ok {
		p.line = 1
		return nil, p.errorf("empty request file, expected #METHOD^URL")
	}
	if err := p.parseRequestLine(first, def); err != nil {
		return nil, err
	}

	for {
		line, start, ok := p.nextLine()
		if !ok {
			return def, nil
		}
		if len(line) == 0 || line[0] != HeaderMarker {
			p.parseBody(line, start, def)
			return def, nil
		}
		if err := p.parseMetadata(line[1:], def); err != nil {
			return nil, err
		}
	}
}

func (p *parser) parseRequestLine(line string, def *RequestDefinition) error {
	if len(line) == 0 || line[0] != HeaderMarker {
		return p.errorf("request line must start with '#' (expected #METHOD^URL)")
	}
	method, url, found := strings.Cut(line[1:], string(MethodSeparator))
	if !found {
		return p.errorf("request line is missing the '^' separator (expected #METHOD^URL)")
	}
	method = strings.TrimSpace(method)
	url = strings.TrimSpace(url)
	if method == "" {
		return p.errorf("missing HTTP method")
	}
	if url == "" {
		return p.errorf("missing URL")
	}
	def.Method = method
	def.URL = p.substitute(url, def)
	return nil
}

func (p *parser) parseMetadata(text string, def *RequestDefinition) error {
	if len(text) > 0 && text[0] == FilterMarker {
		return p.parseFilter(strings.TrimSpace(text[1:]), def)
	}

	key, value, found := strings.Cut(text, string(HeaderDelimiter))
	key = strings.TrimSpace(key)
	if !found || key == "" {
		def.Ignored = append(def.Ignored, IgnoredLine{Line: p.line, Text: string(HeaderMarker) + text})
		return nil
	}
	def.Headers[key] = p.substitute(strings.TrimSpace(value), def)
	return nil
}

func (p *parser) parseFilter(expr string, def *RequestDefinition) error {
	expr = env.Substitute(expr, p.vars)

	compiler := p.compiler
	if compiler == nil {
		var err error
		compiler, err = filter.NewCompiler(filter.DefaultEngine)
		if err != nil {
			return err
		}
	}

	f, err := compiler.Compile(expr)
	if err != nil {
		return &FilterCompileError{File: p.file, Line: p.line, Expr: expr, Err: err}
	}
	def.FilterExpr = expr
	def.Filter = f
	return nil
}

// substitute templates text and records its unresolved placeholders.
func (p *parser) substitute(text string, def *RequestDefinition) string {
	for _, name := range env.Unresolved(text, p.vars) {
		if !slices.Contains(def.Unresolved, name) {
			def.Unresolved = append(def.Unresolved, name)
		}
	}
	return env.Substitute(text, p.vars)
}

// parseBody keeps everything from the first non-marker line to EOF. A blank
// separator line directly after the header block is dropped.
func (p *parser) parseBody(line string, start int, def *RequestDefinition) {
	body := p.input[start:]
	if strings.TrimSpace(line) == "" {
		body = p.input[p.pos:]
	}
	if strings.TrimSpace(body) == "" {
		return
	}
	def.Body = body
}
