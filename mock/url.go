package mock

import (
	"errors"
	"sort"
	"strings"

	"github.com/tarmac-project/resourcemock/request"
)

// URLMatcher decides whether a candidate URL, together with the params the
// caller supplied, satisfies a mock request.
type URLMatcher interface {
	Match(url string, params map[string]any) (bool, error)
	String() string
}

// StaticURL matches exactly one URL.
type StaticURL string

// Match reports whether url equals the static URL. Params are ignored.
func (u StaticURL) Match(url string, _ map[string]any) (bool, error) {
	return string(u) == url, nil
}

func (u StaticURL) String() string { return string(u) }

// ParamURL matches URLs for declarations with matcher params. It holds the
// effective request of the declaration and its params.
type ParamURL struct {
	request *request.Request
	params  map[string]any
}

// Match expands the expected params against the candidate params, renders
// the effective request with the expansion and compares the result with
// url. A url outside the host and path template of the request is rejected
// before any matcher runs. Path params captured from url fill in candidate
// params that were not supplied. Any rejected matcher, or a required path
// param the candidate did not supply, is a non-match. Matcher errors are
// returned.
func (u *ParamURL) Match(url string, params map[string]any) (bool, error) {
	captures, ok := u.request.MatchPath(url)
	if !ok {
		return false, nil
	}
	if len(captures) > 0 {
		merged := make(map[string]any, len(params)+len(captures))
		for k, v := range captures {
			merged[k] = v
		}
		for k, v := range params {
			merged[k] = v
		}
		params = merged
	}

	expanded, err := ExpandParams(u.params, params)
	if err != nil {
		return false, err
	}
	for _, v := range expanded {
		if IsNotMatched(v) {
			return false, nil
		}
	}

	derived, err := u.request.WithOverrides(request.Overrides{Params: expanded}).URL()
	if errors.Is(err, request.ErrMissingParam) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return derived == url, nil
}

// Params returns a copy of the expected params, matchers included.
func (u *ParamURL) Params() map[string]any {
	out := make(map[string]any, len(u.params))
	for k, v := range u.params {
		out[k] = v
	}
	return out
}

// String describes the template and the params governed by matchers.
func (u *ParamURL) String() string {
	var matched []string
	for k, v := range u.params {
		if request.IsMatcher(v) {
			matched = append(matched, k)
		}
	}
	sort.Strings(matched)
	return u.request.Host() + u.request.Path() + " [matchers: " + strings.Join(matched, ", ") + "]"
}
