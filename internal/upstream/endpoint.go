package upstream

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// Params are the values a local request contributes to an upstream call,
// keyed by route parameter name.
type Params map[string]string

func (p Params) clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Request is a fully formed outbound call.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
	// Vars are the resolved template values; response shapers may read them.
	Vars map[string]string
}

// RequestShaper maps local parameters onto an outbound request.
type RequestShaper func(spec *EndpointSpec, params Params) (*Request, error)

// ResponseShaper maps an upstream body onto the local JSON body.
type ResponseShaper func(req *Request, body []byte) ([]byte, error)

// Credential attaches authentication to an outbound request.
type Credential interface {
	Apply(req *http.Request)
}

// APIKey sends the key as a query parameter.
type APIKey struct {
	Param string
	Value string
}

func (k APIKey) Apply(req *http.Request) {
	q := req.URL.Query()
	q.Set(k.Param, k.Value)
	req.URL.RawQuery = q.Encode()
}

type BasicAuth struct {
	Username string
	Password string
}

func (b BasicAuth) Apply(req *http.Request) {
	req.SetBasicAuth(b.Username, b.Password)
}

// EndpointSpec describes how one local route reaches its upstream.
// Specs are built once at start-up and never mutated.
type EndpointSpec struct {
	Name          string
	URLTemplate   string
	Method        string
	Auth          Credential
	ShapeRequest  RequestShaper
	ShapeResponse ResponseShaper
	Fallback      *EndpointSpec
}

func (s *EndpointSpec) buildRequest(params Params) (*Request, error) {
	if s.ShapeRequest != nil {
		return s.ShapeRequest(s, params)
	}
	return ExpandRequest(s, params)
}

func (s *EndpointSpec) shapeResponse(req *Request, body []byte) ([]byte, error) {
	if s.ShapeResponse != nil {
		return s.ShapeResponse(req, body)
	}
	return PassThrough(req, body)
}

// ExpandRequest is the default request shaper: the template is expanded with
// params and sent without a body.
func ExpandRequest(spec *EndpointSpec, params Params) (*Request, error) {
	u, err := Expand(spec.URLTemplate, params)
	if err != nil {
		return nil, err
	}
	method := spec.Method
	if method == "" {
		method = http.MethodGet
	}
	return &Request{Method: method, URL: u, Header: http.Header{}, Vars: params}, nil
}

// TransformParams returns a request shaper that rewrites the parameters
// before the default expansion.
func TransformParams(fn func(Params) (Params, error)) RequestShaper {
	return func(spec *EndpointSpec, params Params) (*Request, error) {
		p, err := fn(params.clone())
		if err != nil {
			return nil, err
		}
		return ExpandRequest(spec, p)
	}
}

var placeholder = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// Expand substitutes {name} placeholders. Values before the first '?' are
// path-escaped, values after it are query-escaped; nothing else is checked.
func Expand(tmpl string, vars map[string]string) (string, error) {
	queryStart := strings.IndexByte(tmpl, '?')

	var b strings.Builder
	last := 0
	for _, m := range placeholder.FindAllStringSubmatchIndex(tmpl, -1) {
		name := tmpl[m[2]:m[3]]
		val, ok := vars[name]
		if !ok {
			return "", fmt.Errorf("no value for placeholder {%s}", name)
		}
		b.WriteString(tmpl[last:m[0]])
		if queryStart >= 0 && m[0] > queryStart {
			b.WriteString(url.QueryEscape(val))
		} else {
			b.WriteString(url.PathEscape(val))
		}
		last = m[1]
	}
	b.WriteString(tmpl[last:])
	return b.String(), nil
}
