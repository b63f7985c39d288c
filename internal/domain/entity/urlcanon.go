package entity

import (
	"net/url"
	"sort"
	"strings"
)

// trackingParamPrefixes and trackingParamNames are stripped during
// canonicalization; they carry no identity information and would otherwise
// make two links to the same article compare as distinct.
var trackingParamPrefixes = []string{"utm_"}

var trackingParamNames = map[string]bool{
	"ref":      true,
	"campaign": true,
}

// CanonicalURL derives the canonical form of a URL used as an article's
// in-run identity: lowercase scheme and host, http upgraded to https,
// tracking query parameters stripped, remaining query parameters sorted,
// and any fragment removed. Canonicalization is idempotent:
// CanonicalURL(CanonicalURL(u)) == CanonicalURL(u).
//
// On parse failure the input is returned unchanged; callers validate URLs
// separately via ValidateURL before this is ever load-bearing.
func CanonicalURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme == "http" {
		scheme = "https"
	}
	u.Scheme = scheme
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	if u.RawQuery != "" {
		q := u.Query()
		for key := range q {
			lower := strings.ToLower(key)
			if trackingParamNames[lower] || hasTrackingPrefix(lower) {
				q.Del(key)
			}
		}
		u.RawQuery = sortedQuery(q)
	}

	return u.String()
}

func hasTrackingPrefix(key string) bool {
	for _, p := range trackingParamPrefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

// sortedQuery re-encodes q with keys in sorted order so equivalent query
// strings canonicalize identically regardless of original ordering.
func sortedQuery(q url.Values) string {
	if len(q) == 0 {
		return ""
	}
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		vs := q[k]
		sort.Strings(vs)
		for j, v := range vs {
			if i > 0 || j > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}
