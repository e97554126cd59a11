package mock

import (
	"bytes"
	"encoding/json"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/tarmac-project/resourcemock/request"
)

// Definition is the resolved form of a declaration.
type Definition struct {
	// Method is the upper-cased HTTP verb.
	Method string
	// URL decides which URLs the mock answers.
	URL URLMatcher
	// Body is the expected body. Nil accepts any body; a request.Matcher is
	// evaluated; any other value is compared after encoding.
	Body any
	// Response is returned for matching calls.
	Response Response
}

// Response is the canned response of a mock.
type Response struct {
	Status  int
	Headers map[string]string
	Body    any
}

// Encode renders the response body. Bodies other than strings and byte
// slices are JSON encoded and get an application/json content type unless
// the headers already name one.
func (r Response) Encode() (int, http.Header, []byte, error) {
	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}

	header := make(http.Header, len(r.Headers)+1)
	for k, v := range r.Headers {
		header.Set(k, v)
	}

	body, err := request.EncodeBody(r.Body)
	if err != nil {
		return 0, nil, nil, err
	}

	switch r.Body.(type) {
	case nil, string, []byte:
	default:
		if header.Get("Content-Type") == "" {
			header.Set("Content-Type", "application/json")
		}
	}
	return status, header, body, nil
}

// Call is one request observed by a mock.
type Call struct {
	Method  string
	URL     string
	Params  map[string]any
	Headers map[string]string
	Body    any
}

// Request is a resolved mock: a definition plus the calls it answered.
type Request struct {
	id  string
	def Definition

	mu    sync.Mutex
	calls []Call
}

// NewRequest creates a mock request. The method is upper-cased.
func NewRequest(id string, def Definition) *Request {
	def.Method = strings.ToUpper(def.Method)
	return &Request{id: id, def: def}
}

// ID returns the identifier of the declaration this request came from.
func (r *Request) ID() string { return r.id }

// Method returns the expected HTTP verb.
func (r *Request) Method() string { return r.def.Method }

// URL returns the URL matcher.
func (r *Request) URL() URLMatcher { return r.def.URL }

// Body returns the expected body.
func (r *Request) Body() any { return r.def.Body }

// Response returns the canned response.
func (r *Request) Response() Response { return r.def.Response }

// IsExactMatch reports whether c satisfies the method, URL and body of the
// mock. Matcher errors are returned wrapped in ErrMatcher.
func (r *Request) IsExactMatch(c Call) (bool, error) {
	if !strings.EqualFold(r.def.Method, c.Method) {
		return false, nil
	}

	ok, err := r.def.URL.Match(c.URL, c.Params)
	if err != nil || !ok {
		return false, err
	}

	return bodyMatches(r.def.Body, c.Body)
}

func bodyMatches(want, got any) (bool, error) {
	if want == nil {
		return true, nil
	}

	if m, ok := want.(request.Matcher); ok {
		accepted, err := m.Match(got)
		if err != nil {
			return false, wrapMatcherErr("body", err)
		}
		return accepted, nil
	}

	wantBytes, err := request.EncodeBody(want)
	if err != nil {
		return false, err
	}
	gotBytes, err := request.EncodeBody(got)
	if err != nil {
		return false, nil
	}
	if bytes.Equal(wantBytes, gotBytes) {
		return true, nil
	}

	// JSON documents with different key order or spacing are the same body.
	var a, b any
	if json.Unmarshal(wantBytes, &a) != nil || json.Unmarshal(gotBytes, &b) != nil {
		return false, nil
	}
	return reflect.DeepEqual(a, b), nil
}

// Call records c and returns the canned response.
func (r *Request) Call(c Call) Response {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
	return r.def.Response
}

// AssertObject returns the assertion view of the request.
func (r *Request) AssertObject() *Assert {
	return &Assert{request: r}
}

// Assert exposes the calls a mock answered.
type Assert struct {
	request *Request
}

// Calls returns the recorded calls, oldest first.
func (a *Assert) Calls() []Call {
	a.request.mu.Lock()
	defer a.request.mu.Unlock()
	out := make([]Call, len(a.request.calls))
	copy(out, a.request.calls)
	return out
}

// CallsCount returns the number of recorded calls.
func (a *Assert) CallsCount() int {
	a.request.mu.Lock()
	defer a.request.mu.Unlock()
	return len(a.request.calls)
}

// MostRecentCall returns the last recorded call, if any.
func (a *Assert) MostRecentCall() (Call, bool) {
	a.request.mu.Lock()
	defer a.request.mu.Unlock()
	if len(a.request.calls) == 0 {
		return Call{}, false
	}
	return a.request.calls[len(a.request.calls)-1], true
}
