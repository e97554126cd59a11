package middleware

import "github.com/tarmac-project/resourcemock/request"

// Params describes the call a middleware chain is built for.
type Params struct {
	// ResourceName is the manifest resource being called.
	ResourceName string
	// ResourceMethod is the method of the resource being called.
	ResourceMethod string
	// MockRequest is true when the chain resolves a mock declaration rather
	// than preparing a real call. Middleware with side effects (metrics,
	// nonces, clocks) should branch on it.
	MockRequest bool
}

// Middleware transforms a request before it reaches the gateway.
// Implementations must not mutate the received request; derive a new one
// with WithOverrides instead.
type Middleware interface {
	Request(req *request.Request) (*request.Request, error)
}

// Func adapts a function to the Middleware interface.
type Func func(req *request.Request) (*request.Request, error)

// Request calls f(req).
func (f Func) Request(req *request.Request) (*request.Request, error) {
	return f(req)
}

// Factory builds a Middleware for one call. Factories run once per call so
// middleware may keep per-call state.
type Factory func(p Params) Middleware

// Static returns a Factory that always yields m.
func Static(m Middleware) Factory {
	return func(Params) Middleware { return m }
}

// Apply reduces the chain left to right starting from req. The first error
// stops the reduction and is returned unchanged.
func Apply(req *request.Request, chain []Middleware) (*request.Request, error) {
	out := req
	for _, m := range chain {
		next, err := m.Request(out)
		if err != nil {
			return nil, err
		}
		out = next
	}
	return out, nil
}
