package mock

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	sdkproto "github.com/tarmac-project/protobuf-go/sdk"
	proto "github.com/tarmac-project/protobuf-go/sdk/http"
	resourcemock "github.com/tarmac-project/resourcemock"
	"github.com/tarmac-project/resourcemock/httpclient"
	"github.com/tarmac-project/resourcemock/logging"
	"github.com/tarmac-project/resourcemock/metrics"
	"github.com/tarmac-project/resourcemock/request"
)

var (
	// ErrNoMatch is returned when no declared mock matches a call.
	ErrNoMatch = errors.New("no mock matched the request")

	// ErrUnsupportedHostCall is returned by HostCall for routes other than
	// the HTTP client capability in the configured namespace.
	ErrUnsupportedHostCall = errors.New("unsupported host call")

	// ErrInvalidPayload is returned by HostCall when the payload is not an
	// HTTPClient message.
	ErrInvalidPayload = errors.New("invalid host call payload")
)

// TransportConfig configures a Transport.
type TransportConfig struct {
	// SDKConfig supplies the namespace HostCall answers for.
	SDKConfig resourcemock.RuntimeConfig
	// Logger receives match diagnostics. Nil discards them.
	Logger logging.Client
	// Metrics, when set, counts matched and unmatched calls and records how
	// long matching took.
	Metrics metrics.Client
}

// Transport answers client calls from declared mocks. It implements
// httpclient.Gateway for in-process use and exposes HostCall so it can stand
// in for the waPC host under a httpclient.HostGateway.
type Transport struct {
	cfg    TransportConfig
	logger logging.Client

	matched     *metrics.Counter
	missed      *metrics.Counter
	declaration *metrics.Gauge
	duration    *metrics.Histogram

	mu        sync.Mutex
	resources []*Resource
	unmatched []Call
}

var _ httpclient.Gateway = (*Transport)(nil)

// NewTransport creates an empty Transport.
func NewTransport(config TransportConfig) *Transport {
	config.SDKConfig = config.SDKConfig.WithDefaults()

	t := &Transport{cfg: config, logger: config.Logger}
	if t.logger == nil {
		t.logger = logging.Discard
	}

	if config.Metrics != nil {
		t.matched, _ = config.Metrics.NewCounter("mock_requests_matched")
		t.missed, _ = config.Metrics.NewCounter("mock_requests_unmatched")
		t.declaration, _ = config.Metrics.NewGauge("mock_declarations")
		t.duration, _ = config.Metrics.NewHistogram("mock_match_duration_seconds")
	}
	return t
}

// MockClient declares a new mock against registry and registers it. Mocks
// are tried in declaration order.
func (t *Transport) MockClient(registry Registry) (*Resource, error) {
	r, err := NewResource(uuid.New().String(), registry)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	t.resources = append(t.resources, r)
	t.mu.Unlock()

	if t.declaration != nil {
		t.declaration.Inc()
	}
	return r, nil
}

// Match resolves the registered mocks in order and returns the first one
// that matches c. It returns nil when none does. Resolution and matcher
// errors abort the search.
func (t *Transport) Match(c Call) (*Request, error) {
	t.mu.Lock()
	resources := make([]*Resource, len(t.resources))
	copy(resources, t.resources)
	t.mu.Unlock()

	for _, r := range resources {
		mr, err := r.Resolve()
		if err != nil {
			return nil, fmt.Errorf("resolve mock %s: %w", r.ID(), err)
		}
		ok, err := mr.IsExactMatch(c)
		if err != nil {
			return nil, fmt.Errorf("match mock %s: %w", r.ID(), err)
		}
		if ok {
			return mr, nil
		}
	}
	return nil, nil
}

// answer finds the mock for c and records the call on it, or on the
// unmatched list when nothing matches.
func (t *Transport) answer(c Call) (*Request, Response, error) {
	start := time.Now()
	mr, err := t.Match(c)
	if t.duration != nil {
		t.duration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		t.logger.Error(fmt.Sprintf("mock lookup for %s %s failed: %s", c.Method, c.URL, err))
		return nil, Response{}, err
	}

	if mr == nil {
		t.mu.Lock()
		t.unmatched = append(t.unmatched, c)
		t.mu.Unlock()
		if t.missed != nil {
			t.missed.Inc()
		}
		t.logger.Warn(fmt.Sprintf("no mock matched %s %s", c.Method, c.URL))
		return nil, Response{}, nil
	}

	if t.matched != nil {
		t.matched.Inc()
	}
	t.logger.Debug(fmt.Sprintf("mock %s matched %s %s", mr.ID(), c.Method, c.URL))
	return mr, mr.Call(c), nil
}

// Call answers an effective client request. Unmatched calls return
// ErrNoMatch.
func (t *Transport) Call(req *request.Request) (*httpclient.Response, error) {
	if req == nil {
		return &httpclient.Response{}, httpclient.ErrNilRequest
	}

	rawURL, err := req.URL()
	if err != nil {
		return &httpclient.Response{}, errors.Join(httpclient.ErrInvalidURL, err)
	}

	c := Call{
		Method:  req.Method(),
		URL:     rawURL,
		Params:  req.Params(),
		Headers: req.Headers(),
		Body:    req.Body(),
	}

	mr, canned, err := t.answer(c)
	if err != nil {
		return &httpclient.Response{}, err
	}
	if mr == nil {
		return &httpclient.Response{}, fmt.Errorf("%w: %s %s", ErrNoMatch, c.Method, c.URL)
	}

	status, header, body, err := canned.Encode()
	if err != nil {
		return &httpclient.Response{}, err
	}

	resp := &httpclient.Response{
		Status:     http.StatusText(status),
		StatusCode: status,
		Header:     header,
	}
	if len(body) > 0 {
		resp.Body = io.NopCloser(bytes.NewReader(body))
	}
	return resp, nil
}

// HostCall implements resourcemock.HostCall for the HTTP client capability.
// The candidate params of a call are its query values plus, for
// declarations with matchers, the path params captured from its URL as
// strings. Unmatched calls are answered with the host "missing" status.
func (t *Transport) HostCall(namespace, capability, function string, payload []byte) ([]byte, error) {
	if namespace != t.cfg.SDKConfig.Namespace || capability != httpclient.Capability || function != httpclient.Function {
		return nil, fmt.Errorf("%w: %s:%s:%s", ErrUnsupportedHostCall, namespace, capability, function)
	}

	var req proto.HTTPClient
	if err := req.UnmarshalVT(payload); err != nil {
		return nil, errors.Join(ErrInvalidPayload, err)
	}

	c := Call{
		Method:  req.GetMethod(),
		URL:     req.GetUrl(),
		Params:  queryParams(req.GetUrl()),
		Headers: make(map[string]string, len(req.GetHeaders())),
	}
	for name, h := range req.GetHeaders() {
		if values := h.GetValues(); len(values) > 0 {
			c.Headers[name] = values[0]
		}
	}
	if body := req.GetBody(); len(body) > 0 {
		c.Body = body
	}

	mr, canned, err := t.answer(c)
	if err != nil {
		return hostStatus(httpclient.HostStatusError, err.Error())
	}
	if mr == nil {
		return hostStatus(httpclient.HostStatusMissing, fmt.Sprintf("%s: %s %s", ErrNoMatch, c.Method, c.URL))
	}

	status, header, body, err := canned.Encode()
	if err != nil {
		return hostStatus(httpclient.HostStatusError, err.Error())
	}

	resp := &proto.HTTPClientResponse{
		Status:  &sdkproto.Status{Code: httpclient.HostStatusOK, Status: "OK"},
		Code:    int32(status),
		Headers: make(map[string]*proto.Header, len(header)),
		Body:    body,
	}
	for name, values := range header {
		resp.Headers[name] = &proto.Header{Values: values}
	}
	return resp.MarshalVT()
}

func hostStatus(code int32, msg string) ([]byte, error) {
	resp := &proto.HTTPClientResponse{Status: &sdkproto.Status{Code: code, Status: msg}}
	return resp.MarshalVT()
}

func queryParams(rawURL string) map[string]any {
	u, err := url.Parse(rawURL)
	if err != nil {
		return map[string]any{}
	}
	out := map[string]any{}
	for k, v := range u.Query() {
		if len(v) == 1 {
			out[k] = v[0]
			continue
		}
		out[k] = v
	}
	return out
}

// Unmatched returns the calls no mock answered, oldest first.
func (t *Transport) Unmatched() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Call, len(t.unmatched))
	copy(out, t.unmatched)
	return out
}

// Reset drops every declaration and the unmatched calls.
func (t *Transport) Reset() {
	t.mu.Lock()
	n := len(t.resources)
	t.resources = nil
	t.unmatched = nil
	t.mu.Unlock()

	if t.declaration != nil {
		for i := 0; i < n; i++ {
			t.declaration.Dec()
		}
	}
}
