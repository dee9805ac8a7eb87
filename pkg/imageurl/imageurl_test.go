package imageurl

import "testing"

func TestResolve_AbsoluteURLUnchanged(t *testing.T) {
	r := NewResolver("https://api.test", "")
	for _, ref := range []string{
		"https://x.test/a.png",
		"http://x.test/a.png",
	} {
		if got := r.Resolve(ref); got != ref {
			t.Fatalf("absolute URL must pass through unchanged: got %q", got)
		}
	}
}

func TestResolve_EmptyReturnsPlaceholder(t *testing.T) {
	r := NewResolver("https://api.test", "")
	if got := r.Resolve(""); got != DefaultPlaceholder {
		t.Fatalf("expected placeholder %q, got %q", DefaultPlaceholder, got)
	}

	custom := NewResolver("https://api.test", "/fallback.png")
	if got := custom.Resolve(""); got != "/fallback.png" {
		t.Fatalf("expected custom placeholder, got %q", got)
	}
}

func TestResolve_SingleJoiningSlash(t *testing.T) {
	cases := []struct {
		base, ref, want string
	}{
		{"https://api.test/", "/img/a.png", "https://api.test/img/a.png"},
		{"https://api.test", "img/a.png", "https://api.test/img/a.png"},
		{"https://api.test/", "img/a.png", "https://api.test/img/a.png"},
		{"https://api.test", "/img/a.png", "https://api.test/img/a.png"},
		{"https://api.test//", "//img/a.png", "https://api.test/img/a.png"},
	}
	for _, tc := range cases {
		r := NewResolver(tc.base, "")
		if got := r.Resolve(tc.ref); got != tc.want {
			t.Fatalf("base %q + ref %q: expected %q, got %q", tc.base, tc.ref, tc.want, got)
		}
	}
}
