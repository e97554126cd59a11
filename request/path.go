package request

import (
	"net/url"
	"regexp"
	"strings"
)

// MatchPath reports whether rawURL addresses the request's host and path
// template, ignoring the query string. On a match it returns the path
// parameters captured from the URL, unescaped. Optional parameters that
// were left out are absent from the result.
func (r *Request) MatchPath(rawURL string) (map[string]string, bool) {
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		rawURL = rawURL[:i]
	}

	re, names := r.pathPattern()
	match := re.FindStringSubmatch(rawURL)
	if match == nil {
		return nil, false
	}

	captures := make(map[string]string, len(names))
	for i, name := range names {
		v := match[i+1]
		if v == "" {
			continue
		}
		if unescaped, err := url.PathUnescape(v); err == nil {
			v = unescaped
		}
		captures[name] = v
	}
	return captures, true
}

// pathPattern compiles the host and path template into an anchored regexp.
// Group i+1 captures names[i].
func (r *Request) pathPattern() (*regexp.Regexp, []string) {
	var names []string
	var b strings.Builder
	b.WriteString("^")
	b.WriteString(regexp.QuoteMeta(r.Host()))

	for _, segment := range strings.Split(r.Path(), "/") {
		if segment == "" {
			continue
		}

		// A segment that is only an optional placeholder disappears
		// together with its slash.
		if sub := pathParam.FindStringSubmatch(segment); sub != nil && sub[0] == segment && sub[2] == "?" {
			names = append(names, sub[1])
			b.WriteString("(?:/([^/]+))?")
			continue
		}

		b.WriteString("/")
		last := 0
		for _, loc := range pathParam.FindAllStringSubmatchIndex(segment, -1) {
			b.WriteString(regexp.QuoteMeta(segment[last:loc[0]]))
			names = append(names, segment[loc[2]:loc[3]])
			if loc[4] >= 0 {
				b.WriteString("([^/]*?)")
			} else {
				b.WriteString("([^/]+?)")
			}
			last = loc[1]
		}
		b.WriteString(regexp.QuoteMeta(segment[last:]))
	}

	b.WriteString("/?$")
	return regexp.MustCompile(b.String()), names
}
