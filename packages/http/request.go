package http

import (
	"github.com/abdul-hamid-achik/barbouse/packages/core/parser"
)

type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    string
}

func NewRequest(method, requestURL string) *Request {
	return &Request{
		Method:  method,
		URL:     requestURL,
		Headers: make(map[string]string),
	}
}

func (r *Request) SetHeader(key, value string) *Request {
	r.Headers[key] = value
	return r
}

func (r *Request) SetBody(body string) *Request {
	r.Body = body
	return r
}

// FromDefinition builds the request described by a parsed request file.
// A blank body is not sent.
func FromDefinition(def *parser.RequestDefinition) *Request {
	r := NewRequest(def.Method, def.URL)
	for k, v := range def.Headers {
		r.SetHeader(k, v)
	}
	if def.HasBody() {
		r.SetBody(def.Body)
	}
	return r
}
