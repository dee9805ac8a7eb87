// Package imageurl resolves stored image references into fetchable URLs.
// Resolution is a total pure function: every input maps to a URL, nothing
// fails and nothing is cached.
package imageurl

import "strings"

// DefaultPlaceholder is served when a product carries no image reference.
const DefaultPlaceholder = "/no-image.png"

// Resolver joins source-relative image paths onto a configured base URL.
type Resolver struct {
	base        string
	placeholder string
}

// NewResolver builds a Resolver. Trailing slashes on base are ignored; an
// empty placeholder falls back to DefaultPlaceholder.
func NewResolver(base, placeholder string) Resolver {
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	return Resolver{
		base:        strings.TrimRight(strings.TrimSpace(base), "/"),
		placeholder: placeholder,
	}
}

// Resolve maps a stored reference to a fetchable URL:
//
//   - empty reference → the placeholder
//   - absolute http:// or https:// URL → returned unchanged
//   - anything else → base joined with the path by exactly one slash,
//     however the inputs were trimmed
func (r Resolver) Resolve(ref string) string {
	if ref == "" {
		return r.placeholder
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return r.base + "/" + strings.TrimLeft(ref, "/")
}
