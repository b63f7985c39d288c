package entity

import "testing"

func TestCanonicalURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "http upgraded to https",
			in:   "http://Example.com/feed",
			want: "https://example.com/feed",
		},
		{
			name: "fragment stripped",
			in:   "https://example.com/a#section",
			want: "https://example.com/a",
		},
		{
			name: "utm params stripped",
			in:   "https://example.com/a?utm_source=x&utm_medium=y&id=1",
			want: "https://example.com/a?id=1",
		},
		{
			name: "ref and campaign stripped",
			in:   "https://example.com/a?ref=abc&campaign=foo&id=1",
			want: "https://example.com/a?id=1",
		},
		{
			name: "remaining query sorted",
			in:   "https://example.com/a?z=1&a=2",
			want: "https://example.com/a?a=2&z=1",
		},
		{
			name: "host lowercased",
			in:   "https://EXAMPLE.com/a",
			want: "https://example.com/a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanonicalURL(tt.in)
			if got != tt.want {
				t.Errorf("CanonicalURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCanonicalURL_Idempotent(t *testing.T) {
	urls := []string{
		"http://Example.com/a?utm_source=x&z=1&a=2#frag",
		"https://example.com/",
		"https://example.com/a?ref=x",
	}
	for _, u := range urls {
		once := CanonicalURL(u)
		twice := CanonicalURL(once)
		if once != twice {
			t.Errorf("CanonicalURL not idempotent for %q: once=%q twice=%q", u, once, twice)
		}
	}
}

func TestCanonicalURL_UnparseableReturnsInput(t *testing.T) {
	bad := "://not a url"
	if got := CanonicalURL(bad); got != bad {
		t.Errorf("expected unparseable input returned unchanged, got %q", got)
	}
}
