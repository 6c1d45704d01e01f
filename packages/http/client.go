package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"time"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxRedirects = 10
)

// Client sends one request per call and buffers the whole response.
type Client struct {
	httpClient *http.Client

	timeout      time.Duration
	redirects    bool
	maxRedirects int
	insecure     bool
	proxy        string
	userAgent    string
	headers      map[string]string
}

type ClientOption func(*Client)

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		timeout:      DefaultTimeout,
		redirects:    true,
		maxRedirects: DefaultMaxRedirects,
		headers:      make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.httpClient = &http.Client{
		Transport:     c.transport(),
		Timeout:       c.timeout,
		CheckRedirect: c.checkRedirect,
	}
	return c
}

// transport clones the default transport so connection pooling and HTTP/2
// behave as in net/http, then applies the proxy and TLS settings.
func (c *Client) transport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	if c.insecure {
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	if c.proxy != "" {
		if u, err := neturl.Parse(c.proxy); err == nil {
			t.Proxy = http.ProxyURL(u)
		}
	}
	return t
}

func (c *Client) checkRedirect(_ *http.Request, via []*http.Request) error {
	if !c.redirects || len(via) >= c.maxRedirects {
		return http.ErrUseLastResponse
	}
	return nil
}

// WithTimeout bounds the whole exchange. Zero disables the timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithFollowRedirects(follow bool) ClientOption {
	return func(c *Client) {
		c.redirects = follow
	}
}

// WithMaxRedirects caps how many redirects are followed; the last redirect
// response is returned once the cap is reached.
func WithMaxRedirects(max int) ClientOption {
	return func(c *Client) {
		c.maxRedirects = max
	}
}

// WithDefaultHeaders adds headers sent with every request. Headers from the
// request file take precedence.
func WithDefaultHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithValidateSSL(false) accepts any server certificate.
func WithValidateSSL(validate bool) ClientOption {
	return func(c *Client) {
		c.insecure = !validate
	}
}

// WithProxy routes every request through proxyURL. Without it the
// HTTP_PROXY family of environment variables applies.
func WithProxy(proxyURL string) ClientOption {
	return func(c *Client) {
		c.proxy = proxyURL
	}
}

// Do sends the request once and reads the whole response. Errors that leave
// no response are returned as *TransportError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL, Err: err}
	}
	return resp, nil
}

func (c *Client) send(ctx context.Context, req *Request) (*Response, error) {
	if err := ValidateURL(req.URL); err != nil {
		return nil, err
	}

	var body io.Reader
	if req.Body != "" {
		body = bytes.NewReader([]byte(req.Body))
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, err
	}
	c.applyHeaders(httpReq.Header, req.Headers)

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    orderedHeaders(httpResp.Header),
		Body:       data,
		Duration:   time.Since(start),
	}, nil
}

// applyHeaders layers the user agent, then default headers, then the
// request's own headers.
func (c *Client) applyHeaders(dst http.Header, own map[string]string) {
	if c.userAgent != "" {
		dst.Set("User-Agent", c.userAgent)
	}
	for _, layer := range []map[string]string{c.headers, own} {
		for k, v := range layer {
			dst.Set(k, v)
		}
	}
}

// ValidateURL accepts only absolute http and https URLs.
func ValidateURL(rawURL string) error {
	u, err := neturl.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	switch {
	case u.Scheme != "http" && u.Scheme != "https":
		return fmt.Errorf("unsupported URL scheme %q (only http and https are allowed)", u.Scheme)
	case u.Host == "":
		return fmt.Errorf("URL %q has no host", rawURL)
	}
	return nil
}
