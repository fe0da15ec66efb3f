package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// Outcome is the result of one Execute: either a local JSON body or the
// failure that prevented it.
type Outcome struct {
	// Endpoint names the spec that produced the outcome. It is the
	// fallback's name when the fallback ran.
	Endpoint string
	Body     []byte
	Err      error
	FellBack bool
}

func (o Outcome) OK() bool { return o.Err == nil }

// Client performs upstream calls. It keeps no per-request state and is safe
// for concurrent use.
type Client struct {
	http *http.Client
}

// NewClient wraps httpClient; nil selects a client with default settings.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{http: httpClient}
}

// Execute dispatches spec once and, if that fails and spec has a fallback,
// dispatches the fallback once.
func (c *Client) Execute(ctx context.Context, spec *EndpointSpec, params Params) Outcome {
	out := c.Dispatch(ctx, spec, params)
	if out.OK() || spec.Fallback == nil {
		return out
	}

	log.WithContext(ctx).WithFields(log.Fields{
		"endpoint": spec.Name,
		"fallback": spec.Fallback.Name,
	}).WithError(out.Err).Warn("primary upstream failed, using fallback")

	fb := c.Dispatch(ctx, spec.Fallback, params)
	fb.FellBack = true
	return fb
}

// Dispatch builds, sends and shapes exactly one upstream call.
func (c *Client) Dispatch(ctx context.Context, spec *EndpointSpec, params Params) Outcome {
	out := Outcome{Endpoint: spec.Name}

	req, err := spec.buildRequest(params)
	if err != nil {
		out.Err = fmt.Errorf("build %s request: %w", spec.Name, err)
		return out
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		out.Err = fmt.Errorf("build %s request: %w", spec.Name, err)
		return out
	}
	for k, vs := range req.Header {
		httpReq.Header[k] = vs
	}
	if spec.Auth != nil {
		spec.Auth.Apply(httpReq)
	}

	entry := log.WithContext(ctx).WithFields(log.Fields{
		"endpoint": spec.Name,
		"method":   req.Method,
		"url":      req.URL,
	})
	start := time.Now()

	resp, err := c.http.Do(httpReq)
	if err != nil {
		out.Err = &UnreachableError{Method: req.Method, URL: req.URL, Err: err}
		entry.WithError(err).Warn("upstream unreachable")
		return out
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		out.Err = &UnreachableError{Method: req.Method, URL: req.URL, Err: err}
		entry.WithError(err).Warn("reading upstream body failed")
		return out
	}

	entry = entry.WithFields(log.Fields{"status": resp.StatusCode, "duration": time.Since(start)})
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		out.Err = &RejectedError{StatusCode: resp.StatusCode, URL: req.URL}
		entry.Warn("upstream rejected request")
		return out
	}

	shaped, err := spec.shapeResponse(req, data)
	if err != nil {
		out.Err = &ShapeMismatchError{Endpoint: spec.Name, Err: err}
		entry.WithError(err).Warn("upstream response did not match")
		return out
	}

	entry.Debug("upstream call completed")
	out.Body = shaped
	return out
}
