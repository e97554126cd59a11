package mock

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/tarmac-project/resourcemock/request"
)

// ErrMatcher wraps errors returned by a request.Matcher while matching.
var ErrMatcher = errors.New("matcher failed")

type notMatched struct{}

func (notMatched) String() string { return "<VALUE_NOT_MATCHED>" }

// NotMatched replaces a parameter whose matcher rejected the candidate
// value. It is never equal to a real parameter value.
var NotMatched fmt.Stringer = notMatched{}

// IsNotMatched reports whether v is the NotMatched sentinel.
func IsNotMatched(v any) bool {
	_, ok := v.(notMatched)
	return ok
}

// ExpandParams builds the params a candidate call is checked with. Only keys
// of expected take part. A literal expected value is replaced by the
// candidate's value, so the derived URL diverges unless the candidate sent
// the same literal. A matcher keeps the candidate's value when it accepts it
// and becomes NotMatched otherwise. Absent candidate values are nil.
func ExpandParams(expected, candidate map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(expected))
	for key, want := range expected {
		got := candidate[key]

		m, ok := want.(request.Matcher)
		if !ok {
			out[key] = got
			continue
		}

		accepted, err := m.Match(got)
		if err != nil {
			return nil, wrapMatcherErr("param "+strconv.Quote(key), err)
		}
		if accepted {
			out[key] = got
		} else {
			out[key] = NotMatched
		}
	}
	return out, nil
}

func wrapMatcherErr(subject string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrMatcher, subject, err)
}
