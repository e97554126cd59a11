package request

// Matcher decides whether a candidate value is acceptable. A Matcher may be
// stored in place of a literal parameter or body value; the request keeps it
// as-is and URL refuses to render it.
type Matcher interface {
	Match(value any) (bool, error)
}

// MatchFunc adapts a plain predicate to the Matcher interface.
type MatchFunc func(value any) bool

// Match calls f(value).
func (f MatchFunc) Match(value any) (bool, error) {
	return f(value), nil
}

// IsMatcher reports whether v is a Matcher rather than a literal value.
func IsMatcher(v any) bool {
	_, ok := v.(Matcher)
	return ok
}

// HasMatchers reports whether any value in params is a Matcher.
func HasMatchers(params map[string]any) bool {
	for _, v := range params {
		if IsMatcher(v) {
			return true
		}
	}
	return false
}
