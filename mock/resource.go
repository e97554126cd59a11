package mock

import (
	"errors"
	"net/http"
	"reflect"
	"sync"

	"github.com/tarmac-project/resourcemock/middleware"
	"github.com/tarmac-project/resourcemock/request"
)

// ErrInvalidClient is returned when a declaration is created without a
// usable registry.
var ErrInvalidClient = errors.New("mock received an invalid client")

// Registry is the part of a client manifest a declaration is resolved
// against. *manifest.Manifest implements it.
type Registry interface {
	CreateMethodDescriptor(resourceName, methodName string) (*request.MethodDescriptor, error)
	CreateMiddleware(p middleware.Params) []middleware.Middleware
}

// Resource declares an expected call to a manifest resource method and the
// response to answer it with. Setters return the receiver for chaining:
//
//	m.Resource("users").
//		Method("get").
//		With(map[string]any{"id": mock.Match(func(v any) bool { return v != nil })}).
//		Status(http.StatusOK).
//		Response(map[string]any{"name": "a"})
//
// The declaration is resolved on first use and the result is kept, so
// setters called after that have no effect on matching.
type Resource struct {
	id       string
	registry Registry

	mu              sync.Mutex
	resourceName    string
	methodName      string
	requestParams   map[string]any
	responseStatus  int
	responseHeaders map[string]string
	responseData    any
	mockRequest     *Request
}

// NewResource creates a declaration bound to registry.
func NewResource(id string, registry Registry) (*Resource, error) {
	if isNil(registry) {
		return nil, ErrInvalidClient
	}

	return &Resource{
		id:              id,
		registry:        registry,
		requestParams:   map[string]any{},
		responseStatus:  http.StatusOK,
		responseHeaders: map[string]string{},
	}, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// ID returns the identifier the declaration was created with.
func (r *Resource) ID() string { return r.id }

// Resource sets the manifest resource name.
func (r *Resource) Resource(name string) *Resource {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resourceName = name
	return r
}

// Method sets the resource method name.
func (r *Resource) Method(name string) *Resource {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.methodName = name
	return r
}

// With sets the expected params. Values are literals or request.Matcher
// values such as those returned by Match and Expr.
func (r *Resource) With(params map[string]any) *Resource {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requestParams = params
	return r
}

// Headers sets the response headers.
func (r *Resource) Headers(headers map[string]string) *Resource {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responseHeaders = headers
	return r
}

// Status sets the response status code.
func (r *Resource) Status(code int) *Resource {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responseStatus = code
	return r
}

// Response sets the response body.
func (r *Resource) Response(body any) *Resource {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responseData = body
	return r
}

// Resolve turns the declaration into a mock request. The descriptor is
// looked up in the registry, the initial request is passed through the
// middleware chain built in mock mode, and the effective request decides
// the matcher: a static URL when every URL param is a literal, a ParamURL
// when any of them is a request.Matcher.
//
// The first successful result is cached and returned by every later call.
// Registry and middleware errors are returned unchanged and not cached.
func (r *Resource) Resolve() (*Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.mockRequest != nil {
		return r.mockRequest, nil
	}

	descriptor, err := r.registry.CreateMethodDescriptor(r.resourceName, r.methodName)
	if err != nil {
		return nil, err
	}

	chain := r.registry.CreateMiddleware(middleware.Params{
		ResourceName:   r.resourceName,
		ResourceMethod: r.methodName,
		MockRequest:    true,
	})

	effective, err := middleware.Apply(request.New(descriptor, r.requestParams), chain)
	if err != nil {
		return nil, err
	}

	var url URLMatcher
	if params := effective.URLParams(); request.HasMatchers(params) {
		url = &ParamURL{request: effective, params: params}
	} else {
		static, err := effective.URL()
		if err != nil {
			return nil, err
		}
		url = StaticURL(static)
	}

	r.mockRequest = NewRequest(r.id, Definition{
		Method: effective.Method(),
		URL:    url,
		Body:   effective.Body(),
		Response: Response{
			Status:  r.responseStatus,
			Headers: r.responseHeaders,
			Body:    r.responseData,
		},
	})
	return r.mockRequest, nil
}

// AssertObject resolves the declaration and returns its assertion view.
func (r *Resource) AssertObject() (*Assert, error) {
	req, err := r.Resolve()
	if err != nil {
		return nil, err
	}
	return req.AssertObject(), nil
}
