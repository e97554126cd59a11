package httpclient

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	proto "github.com/tarmac-project/protobuf-go/sdk/http"
	resourcemock "github.com/tarmac-project/resourcemock"
	"github.com/tarmac-project/resourcemock/request"
	wapc "github.com/wapc/wapc-guest-tinygo"
)

const (
	// Capability and Function route HTTP calls on the host.
	Capability = "httpclient"
	Function   = "call"
)

// Host status codes carried in HTTPClientResponse.Status.
const (
	HostStatusOK       = int32(200)
	HostStatusPartial  = int32(206)
	HostStatusBadInput = int32(400)
	HostStatusMissing  = int32(404)
	HostStatusError    = int32(500)
)

// HostGatewayConfig configures a HostGateway.
type HostGatewayConfig struct {
	// SDKConfig supplies the namespace used for waPC host calls.
	SDKConfig resourcemock.RuntimeConfig
	// InsecureSkipVerify disables TLS verification when supported.
	InsecureSkipVerify bool
	// HostCall overrides the waPC host function; nil means wapc.HostCall.
	HostCall resourcemock.HostCall
}

// HostGateway sends requests to the Tarmac host as protobuf payloads over
// waPC host calls.
type HostGateway struct {
	cfg      HostGatewayConfig
	hostCall resourcemock.HostCall
}

var _ Gateway = (*HostGateway)(nil)

// NewHostGateway creates a HostGateway with namespace and host call defaults.
func NewHostGateway(config HostGatewayConfig) *HostGateway {
	config.SDKConfig = config.SDKConfig.WithDefaults()

	hostCall := config.HostCall
	if hostCall == nil {
		hostCall = wapc.HostCall
	}

	return &HostGateway{cfg: config, hostCall: hostCall}
}

// Call renders the request and sends it to the host.
func (g *HostGateway) Call(req *request.Request) (*Response, error) {
	if req == nil {
		return &Response{}, ErrNilRequest
	}

	method := req.Method()
	if !isValidMethod(method) {
		return &Response{}, fmt.Errorf("%w: %s", ErrInvalidMethod, method)
	}

	rawURL, err := req.URL()
	if err != nil {
		return &Response{}, errors.Join(ErrInvalidURL, err)
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return &Response{}, ErrInvalidURL
	}

	body, err := request.EncodeBody(req.Body())
	if err != nil {
		return &Response{}, errors.Join(ErrMarshalRequest, err)
	}

	pbReq := &proto.HTTPClient{
		Method:   method,
		Url:      rawURL,
		Insecure: g.cfg.InsecureSkipVerify,
		Body:     body,
		Headers:  make(map[string]*proto.Header),
	}
	for key, value := range req.Headers() {
		pbReq.Headers[key] = &proto.Header{Values: []string{value}}
	}

	return g.doHTTPCall(pbReq)
}

// doHTTPCall marshals the protobuf request, performs the host call, and
// unmarshals the response into a Response using proto getters.
func (g *HostGateway) doHTTPCall(req *proto.HTTPClient) (*Response, error) {
	b, err := req.MarshalVT()
	if err != nil {
		return &Response{}, errors.Join(ErrMarshalRequest, err)
	}

	resp, err := g.hostCall(g.cfg.SDKConfig.Namespace, Capability, Function, b)
	if err != nil {
		return &Response{}, errors.Join(resourcemock.ErrHostCall, err)
	}

	var r proto.HTTPClientResponse
	if unmarshalErr := r.UnmarshalVT(resp); unmarshalErr != nil {
		return &Response{}, errors.Join(ErrUnmarshalResponse, unmarshalErr)
	}

	status := r.GetStatus()
	if status == nil {
		return &Response{}, resourcemock.ErrHostResponseInvalid
	}

	statusCode := status.GetCode()
	switch statusCode {
	case HostStatusOK, HostStatusPartial:
		// success path continues
	case HostStatusBadInput, HostStatusMissing, HostStatusError:
		detail := fmt.Sprintf("host status %d", statusCode)
		if msg := status.GetStatus(); msg != "" {
			detail = fmt.Sprintf("%s: %s", detail, msg)
		}
		return &Response{}, errors.Join(resourcemock.ErrHostError, errors.New(detail))
	default:
		return &Response{}, errors.Join(
			resourcemock.ErrHostResponseInvalid,
			fmt.Errorf("unexpected host status code %d", statusCode),
		)
	}

	httpCode := int(r.GetCode())
	out := &Response{
		Status:     http.StatusText(httpCode),
		StatusCode: httpCode,
		Header:     make(http.Header),
	}

	for name, header := range r.GetHeaders() {
		out.Header[name] = header.GetValues()
	}

	if body := r.GetBody(); len(body) > 0 {
		out.Body = io.NopCloser(bytes.NewReader(body))
	}

	return out, nil
}

func isValidMethod(method string) bool {
	switch method {
	case http.MethodGet,
		http.MethodHead,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
		http.MethodConnect,
		http.MethodOptions,
		http.MethodTrace:
		return true
	default:
		return false
	}
}
