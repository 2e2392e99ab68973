// Package httpclient is a small fasthttp based client for JSON endpoints.
package httpclient

import (
	"context"
	"log/slog"
	"net/url"
	"path"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/grc20-indexer/pkg/logger"
	"github.com/gaze-network/grc20-indexer/pkg/logger/slogx"
	"github.com/valyala/fasthttp"
)

type Config struct {
	// Debug logs every request.
	Debug bool

	// Headers are sent with every request.
	Headers map[string]string

	// Timeout of each request, zero means no timeout. A context deadline that expires earlier wins.
	Timeout time.Duration
}

type Client struct {
	baseURL *url.URL
	config  Config
}

func New(baseURL string, config ...Config) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "can't parse base url")
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, errors.Errorf("base url %q must be absolute", baseURL)
	}
	var conf Config
	if len(config) > 0 {
		conf = config[0]
	}
	return &Client{
		baseURL: parsed,
		config:  conf,
	}, nil
}

type RequestOptions struct {
	// Body is sent as application/json when not nil.
	Body   []byte
	Query  url.Values
	Header map[string]string
}

type Response struct {
	URL string
	fasthttp.Response
}

// Post sends a POST request to path, relative to the base url.
func (c *Client) Post(ctx context.Context, path string, opts RequestOptions) (*Response, error) {
	return c.Do(ctx, fasthttp.MethodPost, path, opts)
}

func (c *Client) Do(ctx context.Context, method, reqPath string, opts RequestOptions) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	u := *c.baseURL
	u.Path = path.Join(u.Path, reqPath)
	if len(opts.Query) > 0 {
		u.RawQuery = opts.Query.Encode()
	}
	target := u.String()

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.Header.SetMethod(method)
	req.SetRequestURI(target)
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}
	for k, v := range opts.Header {
		req.Header.Set(k, v)
	}
	if opts.Body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(opts.Body)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	start := time.Now()
	var err error
	deadline, hasDeadline := ctx.Deadline()
	switch {
	case c.config.Timeout > 0 && (!hasDeadline || time.Until(deadline) > c.config.Timeout):
		err = fasthttp.DoTimeout(req, resp, c.config.Timeout)
	case hasDeadline:
		err = fasthttp.DoDeadline(req, resp, deadline)
	default:
		err = fasthttp.Do(req, resp)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "request failed, url: %s", target)
	}

	if c.config.Debug {
		logger.DebugContext(ctx, "Finished request",
			slogx.String("package", "httpclient"),
			slogx.String("method", method),
			slogx.String("url", target),
			slogx.Int("status_code", resp.StatusCode()),
			slogx.Duration("duration", time.Since(start)),
			slog.Int("resp_content_length", len(resp.Body())),
		)
	}

	result := &Response{URL: target}
	resp.CopyTo(&result.Response)
	return result, nil
}
