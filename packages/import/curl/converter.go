// Package curl converts curl command lines into barbouse request files.
package curl

import (
	"encoding/base64"
	"fmt"
	"sort"
	"strings"
)

// Converter turns curl commands into request files.
type Converter struct {
	filter string
}

// Option is a functional option for Converter.
type Option func(*Converter)

// WithFilter adds a #| filter line to converted requests.
func WithFilter(expr string) Option {
	return func(c *Converter) {
		c.filter = expr
	}
}

// NewConverter creates a new curl converter.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ParsedCurl is the request a curl command describes.
type ParsedCurl struct {
	Method    string
	URL       string
	Headers   map[string]string
	Body      string
	BasicAuth string
	// Insecure and FollowRedirects have no request file equivalent and are
	// reported back to the caller.
	Insecure        bool
	FollowRedirects bool
}

// Convert parses curlCmd and renders it as a request file.
func (c *Converter) Convert(curlCmd string) (string, *ParsedCurl, error) {
	parsed, err := c.Parse(curlCmd)
	if err != nil {
		return "", nil, err
	}
	return c.ToRequestFile(parsed), parsed, nil
}

// Parse parses a curl command line. Backslash line continuations are
// accepted; unknown flags are skipped.
func (c *Converter) Parse(curlCmd string) (*ParsedCurl, error) {
	parsed := &ParsedCurl{
		Headers: make(map[string]string),
	}
	explicitMethod := ""

	curlCmd = strings.ReplaceAll(curlCmd, "\\\r\n", " ")
	curlCmd = strings.ReplaceAll(curlCmd, "\\\n", " ")
	tokens := tokenize(strings.TrimSpace(curlCmd))
	if len(tokens) > 0 && tokens[0] == "curl" {
		tokens = tokens[1:]
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("no URL specified")
	}

	value := func(i int) (string, error) {
		if i+1 >= len(tokens) {
			return "", fmt.Errorf("missing value for %s", tokens[i])
		}
		return tokens[i+1], nil
	}

	for i := 0; i < len(tokens); i++ {
		token := tokens[i]

		switch token {
		case "-X", "--request":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			explicitMethod = strings.ToUpper(v)
			i++

		case "-H", "--header":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			if key, val, ok := strings.Cut(v, ":"); ok && strings.TrimSpace(key) != "" {
				parsed.Headers[strings.TrimSpace(key)] = strings.TrimSpace(val)
			}
			i++

		case "-d", "--data", "--data-raw", "--data-binary", "--data-ascii":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			if parsed.Body != "" {
				parsed.Body += "&"
			}
			parsed.Body += v
			i++

		case "--json":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.Body += v
			setDefault(parsed.Headers, "Content-Type", "application/json")
			setDefault(parsed.Headers, "Accept", "application/json")
			i++

		case "-u", "--user":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.BasicAuth = v
			i++

		case "-A", "--user-agent":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.Headers["User-Agent"] = v
			i++

		case "-e", "--referer":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.Headers["Referer"] = v
			i++

		case "-b", "--cookie":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.Headers["Cookie"] = v
			i++

		case "--url":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.URL = v
			i++

		case "-I", "--head":
			explicitMethod = "HEAD"

		case "-k", "--insecure":
			parsed.Insecure = true

		case "-L", "--location":
			parsed.FollowRedirects = true

		default:
			if strings.HasPrefix(token, "-") {
				// Unknown flag; skip its value when it clearly has one.
				if i+1 < len(tokens) && !strings.HasPrefix(tokens[i+1], "-") && !isURL(tokens[i+1]) {
					i++
				}
				continue
			}
			if parsed.URL == "" {
				parsed.URL = token
			}
		}
	}

	if parsed.URL == "" {
		return nil, fmt.Errorf("no URL found in curl command")
	}

	switch {
	case explicitMethod != "":
		parsed.Method = explicitMethod
	case parsed.Body != "":
		parsed.Method = "POST"
	default:
		parsed.Method = "GET"
	}

	if parsed.BasicAuth != "" {
		token := base64.StdEncoding.EncodeToString([]byte(parsed.BasicAuth))
		setDefault(parsed.Headers, "Authorization", "Basic "+token)
	}

	return parsed, nil
}

// ToRequestFile renders parsed in request file format. Headers are written
// in name order.
func (c *Converter) ToRequestFile(parsed *ParsedCurl) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "#%s^%s\n", parsed.Method, parsed.URL)

	names := make([]string, 0, len(parsed.Headers))
	for name := range parsed.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "#%s: %s\n", name, parsed.Headers[name])
	}

	if c.filter != "" {
		fmt.Fprintf(&sb, "#|%s\n", c.filter)
	}

	if parsed.Body != "" {
		sb.WriteString("\n")
		sb.WriteString(parsed.Body)
		if !strings.HasSuffix(parsed.Body, "\n") {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func setDefault(headers map[string]string, key, value string) {
	for k := range headers {
		if strings.EqualFold(k, key) {
			return
		}
	}
	headers[key] = value
}

// tokenize splits a command line into words, honouring single and double
// quotes and backslash escapes.
func tokenize(cmd string) []string {
	var tokens []string
	var current strings.Builder
	inToken := false
	inSingleQuote := false
	inDoubleQuote := false
	escaped := false

	for _, r := range cmd {
		if escaped {
			current.WriteRune(r)
			escaped = false
			continue
		}

		switch {
		case r == '\\' && !inSingleQuote:
			escaped = true
			inToken = true
		case r == '\'' && !inDoubleQuote:
			inSingleQuote = !inSingleQuote
			inToken = true
		case r == '"' && !inSingleQuote:
			inDoubleQuote = !inDoubleQuote
			inToken = true
		case (r == ' ' || r == '\t' || r == '\n' || r == '\r') && !inSingleQuote && !inDoubleQuote:
			if inToken {
				tokens = append(tokens, current.String())
				current.Reset()
				inToken = false
			}
		default:
			current.WriteRune(r)
			inToken = true
		}
	}

	if inToken {
		tokens = append(tokens, current.String())
	}

	return tokens
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "{")
}
