package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/abdul-hamid-achik/barbouse/packages/filter"
	"github.com/abdul-hamid-achik/barbouse/packages/http"
	"github.com/fatih/color"
)

// DefaultStyle is the chroma style used for JSON highlighting.
const DefaultStyle = "monokai"

// Renderer writes response output.
type Renderer struct {
	writer  io.Writer
	raw     bool
	noColor bool
	style   string
}

type Option func(*Renderer)

func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		writer: os.Stdout,
		style:  DefaultStyle,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.noColor {
		color.NoColor = true
	}
	return r
}

func WithWriter(w io.Writer) Option {
	return func(r *Renderer) {
		r.writer = w
	}
}

// WithRaw disables JSON highlighting.
func WithRaw(raw bool) Option {
	return func(r *Renderer) {
		r.raw = raw
	}
}

// WithNoColor disables all ANSI colouring, highlighting included.
func WithNoColor(nc bool) Option {
	return func(r *Renderer) {
		r.noColor = nc
	}
}

func WithStyle(style string) Option {
	return func(r *Renderer) {
		if style != "" {
			r.style = style
		}
	}
}

// Progress prints the one-line record of the request about to be sent.
func (r *Renderer) Progress(method, url string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(r.writer, "%s %s\n", bold(method), url)
}

// Headers prints the status line, every header as "Name: Value" and a blank
// separator line.
func (r *Renderer) Headers(statusCode int, reason string, headers []http.Header) {
	statusStyle := statusColor(statusCode)
	cyan := color.New(color.FgCyan).SprintFunc()

	status := fmt.Sprintf("%d", statusCode)
	if reason != "" {
		status += " " + reason
	}
	fmt.Fprintln(r.writer, statusStyle.Sprint(status))
	for _, h := range headers {
		fmt.Fprintf(r.writer, "%s: %s\n", cyan(h.Name), h.Value)
	}
	fmt.Fprintln(r.writer)
}

func statusColor(code int) *color.Color {
	switch {
	case http.IsSuccess(code):
		return color.New(color.FgGreen, color.Bold)
	case http.IsRedirect(code):
		return color.New(color.FgCyan, color.Bold)
	case http.IsClientError(code):
		return color.New(color.FgYellow, color.Bold)
	case http.IsServerError(code):
		return color.New(color.FgRed, color.Bold)
	}
	return color.New(color.Bold)
}

// JSON applies f (when not nil) to value and prints the result. A filter
// producing exactly one value prints that value; any other number of results
// prints them as an array. Nothing is written if filtering or encoding fails.
func (r *Renderer) JSON(value any, f filter.Filter) error {
	data, err := r.FormatJSON(value, f)
	if err != nil {
		return err
	}
	return r.Write(data)
}

// FormatJSON prepares what JSON would print without writing it.
func (r *Renderer) FormatJSON(value any, f filter.Filter) ([]byte, error) {
	if f != nil {
		results, err := f.Apply(value)
		if err != nil {
			return nil, fmt.Errorf("applying filter %q: %w", f.String(), err)
		}
		value = Collapse(results)
	}

	data, err := MarshalJSON(value)
	if err != nil {
		return nil, fmt.Errorf("encoding JSON output: %w", err)
	}

	if r.raw || r.noColor {
		return data, nil
	}

	var buf bytes.Buffer
	if err := Highlight(&buf, string(data), r.style); err != nil {
		return data, nil
	}
	return buf.Bytes(), nil
}

func (r *Renderer) Write(data []byte) error {
	_, err := r.writer.Write(data)
	return err
}

// Request prints a request without sending it. Headers are sorted by name.
func (r *Renderer) Request(method, url string, headers map[string]string, body string) {
	r.Progress(method, url)
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)
	cyan := color.New(color.FgCyan).SprintFunc()
	for _, name := range names {
		fmt.Fprintf(r.writer, "%s: %s\n", cyan(name), headers[name])
	}
	if body != "" {
		fmt.Fprintln(r.writer)
		fmt.Fprint(r.writer, body)
		if !strings.HasSuffix(body, "\n") {
			fmt.Fprintln(r.writer)
		}
	}
}

// Text prints a non-JSON body unchanged.
func (r *Renderer) Text(raw string) {
	fmt.Fprint(r.writer, raw)
}

// Attachment confirms where an attachment was saved.
func (r *Renderer) Attachment(path string) {
	fmt.Fprintf(r.writer, "Saved attachment to %s\n", path)
}

// Collapse turns a filter result sequence into the value to print.
func Collapse(results []any) any {
	if len(results) == 1 {
		return results[0]
	}
	if results == nil {
		return []any{}
	}
	return results
}

// MarshalJSON encodes value with sorted object keys, four-space indentation
// and a trailing newline. HTML characters are not escaped.
func MarshalJSON(value any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
