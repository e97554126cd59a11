package httpclient

import (
	"errors"
	"io"
	"net/http"

	resourcemock "github.com/tarmac-project/resourcemock"
	"github.com/tarmac-project/resourcemock/manifest"
	"github.com/tarmac-project/resourcemock/middleware"
	"github.com/tarmac-project/resourcemock/request"
)

// Gateway sends a fully prepared request and returns the response. The
// host gateway talks to the Tarmac runtime; the mock transport implements
// Gateway to answer calls from mock declarations.
type Gateway interface {
	Call(req *request.Request) (*Response, error)
}

// Config configures the client and its host integration.
//
// Manifest is required. When Gateway is nil the client sends requests
// through a HostGateway built from SDKConfig, InsecureSkipVerify and
// HostCall; a nil HostCall means wapc.HostCall.
type Config struct {
	// SDKConfig provides the runtime namespace for host calls.
	SDKConfig resourcemock.RuntimeConfig
	// Manifest defines the resources the client can call.
	Manifest *manifest.Manifest
	// Gateway overrides how prepared requests are sent.
	Gateway Gateway
	// InsecureSkipVerify disables TLS verification when supported.
	InsecureSkipVerify bool
	// HostCall overrides the waPC host function used for requests.
	HostCall resourcemock.HostCall
}

// Client calls manifest resources: it resolves the method descriptor, runs
// the middleware chain and hands the result to the gateway.
type Client struct {
	manifest *manifest.Manifest
	gateway  Gateway
}

// Response represents an HTTP response returned by a gateway.
type Response struct {
	// Status is the HTTP status text (e.g., "OK").
	Status string
	// StatusCode is the numeric HTTP status code (e.g., 200).
	StatusCode int
	// Header contains response headers. Nil is treated as empty.
	Header http.Header
	// Body is the response payload stream. It may be nil for empty bodies.
	Body io.ReadCloser
}

var (
	// ErrNilManifest is returned by New when no manifest is configured.
	ErrNilManifest = errors.New("manifest cannot be nil")

	// ErrInvalidURL indicates a malformed or unsupported URL.
	ErrInvalidURL = errors.New("invalid URL provided")

	// ErrMarshalRequest wraps failures while encoding the request payload.
	ErrMarshalRequest = errors.New("failed to create request")

	// ErrUnmarshalResponse wraps failures while decoding the host response.
	ErrUnmarshalResponse = errors.New("failed to unmarshal response")

	// ErrInvalidMethod indicates an HTTP method the host does not accept.
	ErrInvalidMethod = errors.New("invalid HTTP method")

	// ErrNilRequest indicates a gateway received a nil request.
	ErrNilRequest = errors.New("request is nil")
)

// New creates a client for the configured manifest.
func New(config Config) (*Client, error) {
	if config.Manifest == nil {
		return nil, ErrNilManifest
	}

	gw := config.Gateway
	if gw == nil {
		gw = NewHostGateway(HostGatewayConfig{
			SDKConfig:          config.SDKConfig,
			InsecureSkipVerify: config.InsecureSkipVerify,
			HostCall:           config.HostCall,
		})
	}

	return &Client{manifest: config.Manifest, gateway: gw}, nil
}

// Manifest returns the manifest the client was built with. Mock
// declarations are resolved against it.
func (c *Client) Manifest() *manifest.Manifest { return c.manifest }

// Call invokes resourceName.methodName with params. Lookup and middleware
// errors are returned as-is.
func (c *Client) Call(resourceName, methodName string, params map[string]any) (*Response, error) {
	descriptor, err := c.manifest.CreateMethodDescriptor(resourceName, methodName)
	if err != nil {
		return &Response{}, err
	}

	chain := c.manifest.CreateMiddleware(middleware.Params{
		ResourceName:   resourceName,
		ResourceMethod: methodName,
	})

	req, err := middleware.Apply(request.New(descriptor, params), chain)
	if err != nil {
		return &Response{}, err
	}

	return c.gateway.Call(req)
}
