// Package media turns stored image keys into public URLs.
package media

import (
	"fmt"
	"net/url"
	"strings"
)

// Resolver is built once at startup; it never touches the blob store.
type Resolver struct {
	base *url.URL
}

// NewResolver parses baseURL. An empty baseURL yields a resolver that
// returns keys unchanged.
func NewResolver(baseURL string) (*Resolver, error) {
	if baseURL == "" {
		return &Resolver{}, nil
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse media base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("media base url %q must be absolute", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return &Resolver{base: u}, nil
}

// URL returns the address of key, or "" when key is empty. Keys that are
// already absolute URLs pass through.
func (r *Resolver) URL(key string) string {
	if key == "" {
		return ""
	}
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key
	}
	if r == nil || r.base == nil {
		return key
	}
	ref := &url.URL{Path: strings.TrimPrefix(key, "/")}
	return r.base.ResolveReference(ref).String()
}
