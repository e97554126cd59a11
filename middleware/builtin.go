package middleware

import (
	"encoding/base64"
	"errors"

	"github.com/tarmac-project/resourcemock/metrics"
	"github.com/tarmac-project/resourcemock/request"
)

const contentTypeJSON = "application/json;charset=utf-8"

// EncodeJSON serializes structured bodies to JSON and sets the Content-Type
// header. String and byte bodies, matcher bodies and absent bodies pass
// through untouched.
func EncodeJSON() Factory {
	return Static(Func(func(req *request.Request) (*request.Request, error) {
		switch req.Body().(type) {
		case nil, string, []byte, request.Matcher:
			return req, nil
		}
		b, err := request.EncodeBody(req.Body())
		if err != nil {
			return nil, err
		}
		return req.WithOverrides(request.Overrides{
			Body:    string(b),
			Headers: map[string]string{"Content-Type": contentTypeJSON},
		}), nil
	}))
}

// BearerToken sets the Authorization header to "Bearer <token>".
func BearerToken(token string) Factory {
	return header("Authorization", "Bearer "+token)
}

// BasicAuth sets the Authorization header for HTTP basic authentication.
func BasicAuth(username, password string) Factory {
	creds := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	return header("Authorization", "Basic "+creds)
}

func header(name, value string) Factory {
	return Static(Func(func(req *request.Request) (*request.Request, error) {
		return req.WithOverrides(request.Overrides{Headers: map[string]string{name: value}}), nil
	}))
}

// DefaultParams adds params the caller did not supply, e.g. an API key
// expected on every call.
func DefaultParams(defaults map[string]any) Factory {
	return Static(Func(func(req *request.Request) (*request.Request, error) {
		current := req.Params()
		missing := make(map[string]any, len(defaults))
		for k, v := range defaults {
			if _, ok := current[k]; !ok {
				missing[k] = v
			}
		}
		if len(missing) == 0 {
			return req, nil
		}
		return req.WithOverrides(request.Overrides{Params: missing}), nil
	}))
}

// RenameParam moves the value of param from to param to. The original key
// is kept with a nil value so it drops out of the URL.
func RenameParam(from, to string) Factory {
	return Static(Func(func(req *request.Request) (*request.Request, error) {
		v, ok := req.Params()[from]
		if !ok {
			return req, nil
		}
		return req.WithOverrides(request.Overrides{Params: map[string]any{from: nil, to: v}}), nil
	}))
}

// ErrMetricsClientNil is returned by chains built with Instrument(nil).
var ErrMetricsClientNil = errors.New("metrics client cannot be nil")

// Instrument counts outgoing calls per resource method as
// "<resource>_<method>_requests". Nothing is emitted while resolving mocks.
func Instrument(client metrics.Client) Factory {
	return func(p Params) Middleware {
		return Func(func(req *request.Request) (*request.Request, error) {
			if p.MockRequest {
				return req, nil
			}
			if client == nil {
				return nil, ErrMetricsClientNil
			}
			counter, err := client.NewCounter(metrics.Name(p.ResourceName, p.ResourceMethod, "requests"))
			if err != nil {
				return nil, err
			}
			counter.Inc()
			return req, nil
		})
	}
}
