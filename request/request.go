package request

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	// DefaultBodyAttr is the parameter that carries the request body.
	DefaultBodyAttr = "body"

	// DefaultHeadersAttr is the parameter that carries per-call headers.
	DefaultHeadersAttr = "headers"
)

var (
	// ErrMissingParam is returned by URL when a required path parameter has no value.
	ErrMissingParam = errors.New("required path parameter is missing")

	// ErrUnresolvedMatcher is returned by URL when a parameter still holds a Matcher.
	ErrUnresolvedMatcher = errors.New("parameter holds a matcher instead of a value")

	// pathParam finds "{name}" and "{name?}" placeholders in a path template.
	pathParam = regexp.MustCompile(`\{([A-Za-z0-9_\-.]+)(\?)?\}`)
)

// MethodDescriptor describes a single resource method of a manifest.
type MethodDescriptor struct {
	// Host is the scheme and authority prepended to Path, e.g. "https://api.example.com".
	Host string
	// Path is the path template. Placeholders use "{name}" or "{name?}" for optional values.
	Path string
	// Method is the HTTP verb. Empty means GET.
	Method string
	// Params holds default parameter values merged under the caller's params.
	Params map[string]any
	// Headers holds headers sent on every call.
	Headers map[string]string
	// BodyAttr names the parameter carrying the body. Empty means DefaultBodyAttr.
	BodyAttr string
	// HeadersAttr names the parameter carrying headers. Empty means DefaultHeadersAttr.
	HeadersAttr string
	// QueryParamAlias renames parameters when they are written to the query string.
	QueryParamAlias map[string]string
}

func (d *MethodDescriptor) bodyAttr() string {
	if d.BodyAttr == "" {
		return DefaultBodyAttr
	}
	return d.BodyAttr
}

func (d *MethodDescriptor) headersAttr() string {
	if d.HeadersAttr == "" {
		return DefaultHeadersAttr
	}
	return d.HeadersAttr
}

// Overrides lists the parts of a Request replaced by WithOverrides. Zero
// values leave the original untouched; Params and Headers are merged.
type Overrides struct {
	Method  string
	Host    string
	Path    string
	Params  map[string]any
	Headers map[string]string
	Body    any
}

// Request is an immutable logical call: a method descriptor plus the
// parameters supplied for it. Middleware derive new requests with
// WithOverrides.
type Request struct {
	descriptor *MethodDescriptor
	params     map[string]any
	headers    map[string]string
	method     string
	host       string
	path       string
	body       any
	hasBody    bool
}

// New creates a Request for the descriptor. The params map is copied.
func New(descriptor *MethodDescriptor, params map[string]any) *Request {
	if descriptor == nil {
		descriptor = &MethodDescriptor{}
	}
	return &Request{
		descriptor: descriptor,
		params:     merge(nil, params),
		headers:    map[string]string{},
	}
}

// Descriptor returns the method descriptor the request was built from.
func (r *Request) Descriptor() *MethodDescriptor { return r.descriptor }

// Method returns the upper-cased HTTP verb.
func (r *Request) Method() string {
	m := r.method
	if m == "" {
		m = r.descriptor.Method
	}
	if m == "" {
		return "GET"
	}
	return strings.ToUpper(m)
}

// Host returns the host the URL is built against, without a trailing slash.
func (r *Request) Host() string {
	h := r.host
	if h == "" {
		h = r.descriptor.Host
	}
	return strings.TrimRight(h, "/")
}

// Path returns the path template.
func (r *Request) Path() string {
	if r.path != "" {
		return r.path
	}
	return r.descriptor.Path
}

// Params returns the descriptor defaults merged with the request params.
// The returned map is a copy.
func (r *Request) Params() map[string]any {
	return merge(merge(nil, r.descriptor.Params), r.params)
}

// Body returns the request body: an override when one was set, otherwise
// the body parameter.
func (r *Request) Body() any {
	if r.hasBody {
		return r.body
	}
	return r.Params()[r.descriptor.bodyAttr()]
}

// Headers returns descriptor headers, then the headers parameter, then
// override headers, with later values winning.
func (r *Request) Headers() map[string]string {
	out := make(map[string]string, len(r.descriptor.Headers)+len(r.headers))
	for k, v := range r.descriptor.Headers {
		out[k] = v
	}
	switch h := r.Params()[r.descriptor.headersAttr()].(type) {
	case map[string]string:
		for k, v := range h {
			out[k] = v
		}
	case map[string]any:
		for k, v := range h {
			out[k] = fmt.Sprint(v)
		}
	}
	for k, v := range r.headers {
		out[k] = v
	}
	return out
}

// URLParams returns Params without the body and headers parameters, i.e.
// the values that end up in the path or the query string.
func (r *Request) URLParams() map[string]any {
	params := r.Params()
	delete(params, r.descriptor.bodyAttr())
	delete(params, r.descriptor.headersAttr())
	return params
}

// URL renders the host, the expanded path template and the query string.
// Parameters not consumed by the path, other than the body and headers
// parameters, become query values sorted by key. Nil values are skipped.
func (r *Request) URL() (string, error) {
	params := r.URLParams()

	for name, v := range params {
		if IsMatcher(v) {
			return "", fmt.Errorf("%w: %s", ErrUnresolvedMatcher, name)
		}
	}

	var missing []string
	path := pathParam.ReplaceAllStringFunc(r.Path(), func(m string) string {
		sub := pathParam.FindStringSubmatch(m)
		name, optional := sub[1], sub[2] == "?"
		v, ok := params[name]
		delete(params, name)
		if !ok || v == nil {
			if !optional {
				missing = append(missing, name)
			}
			return ""
		}
		return url.PathEscape(format(v))
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", ErrMissingParam, strings.Join(missing, ", "))
	}

	// Optional segments that collapsed leave doubled or trailing slashes.
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	query := url.Values{}
	for name, v := range params {
		if v == nil {
			continue
		}
		key := name
		if alias, ok := r.descriptor.QueryParamAlias[name]; ok {
			key = alias
		}
		for _, s := range values(v) {
			query.Add(key, s)
		}
	}

	out := r.Host() + path
	if len(query) > 0 {
		out += "?" + query.Encode()
	}
	return out, nil
}

// WithOverrides returns a copy of the request with the overrides applied.
// The receiver is not modified.
func (r *Request) WithOverrides(o Overrides) *Request {
	next := &Request{
		descriptor: r.descriptor,
		params:     merge(merge(nil, r.params), o.Params),
		headers:    make(map[string]string, len(r.headers)+len(o.Headers)),
		method:     r.method,
		host:       r.host,
		path:       r.path,
		body:       r.body,
		hasBody:    r.hasBody,
	}
	for k, v := range r.headers {
		next.headers[k] = v
	}
	for k, v := range o.Headers {
		next.headers[k] = v
	}
	if o.Method != "" {
		next.method = o.Method
	}
	if o.Host != "" {
		next.host = o.Host
	}
	if o.Path != "" {
		next.path = o.Path
	}
	if o.Body != nil {
		next.body = o.Body
		next.hasBody = true
	}
	return next
}

func merge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func format(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

// values flattens slices into repeated query values.
func values(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, format(e))
		}
		return out
	default:
		return []string{format(v)}
	}
}
