package classify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"mime"
	"strings"

	"github.com/abdul-hamid-achik/barbouse/packages/http"
)

var errTrailingData = errors.New("unexpected data after JSON value")

// Body is one of Attachment, JSON or Text.
type Body interface {
	isBody()
}

// Attachment is a response the server asked to be saved. Filename is the
// suggested name from Content-Disposition and may be empty.
type Attachment struct {
	Data     []byte
	Filename string
}

// JSON is a decoded JSON document.
type JSON struct {
	Value any
}

// Text is a body that is not JSON, kept verbatim.
type Text struct {
	Raw string
}

func (Attachment) isBody() {}
func (JSON) isBody()       {}
func (Text) isBody()       {}

// Outcome is a response with its body classified.
type Outcome struct {
	StatusCode int
	Reason     string
	Headers    []http.Header
	Body       Body
}

// Classify builds the outcome for a response.
func Classify(resp *http.Response) *Outcome {
	return &Outcome{
		StatusCode: resp.StatusCode,
		Reason:     resp.Reason(),
		Headers:    resp.Headers,
		Body:       ClassifyBody(resp.Header("Content-Disposition"), resp.Body),
	}
}

// ClassifyBody classifies raw body bytes given the Content-Disposition value.
func ClassifyBody(disposition string, body []byte) Body {
	if filename, ok := ParseAttachment(disposition); ok {
		return Attachment{Data: body, Filename: filename}
	}
	if value, err := DecodeJSON(body); err == nil {
		return JSON{Value: value}
	}
	return Text{Raw: string(body)}
}

// ParseAttachment reports whether a Content-Disposition value marks an
// attachment and returns the suggested filename, if any.
func ParseAttachment(disposition string) (filename string, ok bool) {
	if !containsToken(disposition, "attachment") {
		return "", false
	}

	if _, params, err := mime.ParseMediaType(disposition); err == nil {
		if name := params["filename"]; name != "" {
			return name, true
		}
	}

	// Fallback for headers mime rejects, e.g. unquoted names with spaces.
	_, rest, found := strings.Cut(disposition, ";")
	if !found {
		return "", true
	}
	for _, param := range strings.Split(rest, ";") {
		key, value, found := strings.Cut(strings.TrimSpace(param), "=")
		if !found || !strings.EqualFold(strings.TrimSpace(key), "filename") {
			continue
		}
		return strings.Trim(strings.TrimSpace(value), `"'`), true
	}
	return "", true
}

func containsToken(header, token string) bool {
	for _, part := range strings.FieldsFunc(header, func(r rune) bool {
		return r == ';' || r == ',' || r == ' ' || r == '\t'
	}) {
		if strings.EqualFold(part, token) {
			return true
		}
	}
	return false
}

// DecodeJSON decodes a single JSON document. Integral numbers are returned
// as int, or *big.Int when they do not fit, and all other numbers as
// float64. Numbers beyond the float64 range are rejected.
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errTrailingData
	}
	return normalizeNumbers(value)
}

func normalizeNumbers(value any) (any, error) {
	switch v := value.(type) {
	case json.Number:
		return convertNumber(v)
	case map[string]any:
		for k, item := range v {
			n, err := normalizeNumbers(item)
			if err != nil {
				return nil, err
			}
			v[k] = n
		}
		return v, nil
	case []any:
		for i, item := range v {
			n, err := normalizeNumbers(item)
			if err != nil {
				return nil, err
			}
			v[i] = n
		}
		return v, nil
	default:
		return value, nil
	}
}

func convertNumber(n json.Number) (any, error) {
	if i, err := n.Int64(); err == nil && i >= math.MinInt && i <= math.MaxInt {
		return int(i), nil
	}
	if b, ok := new(big.Int).SetString(n.String(), 10); ok {
		return b, nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("number %s out of range: %w", n, err)
	}
	return f, nil
}
