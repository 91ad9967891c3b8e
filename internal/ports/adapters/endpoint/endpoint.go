// Package endpoint validates user supplied provider base URLs before any
// credential is sent to them.
package endpoint

import (
	"fmt"
	"net/url"
	"strings"
)

// Policy describes which hosts a provider may be reached at.
type Policy struct {
	// Name appears in error messages, e.g. "OPENROUTER_BASE_URL".
	Name         string
	DefaultHosts []string
}

// Normalize trims whitespace and trailing slashes, substituting def when
// baseURL is empty.
func Normalize(baseURL, def string) string {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = def
	}
	return strings.TrimRight(baseURL, "/")
}

// Validate accepts only absolute https URLs without userinfo, query or
// fragment whose host is in allowedHosts, or in p.DefaultHosts when
// allowedHosts is empty.
func Validate(p Policy, baseURL string, allowedHosts []string) error {
	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", p.Name, err)
	}
	bad := func(reason string) error {
		return fmt.Errorf("invalid %s %q: %s", p.Name, baseURL, reason)
	}
	switch {
	case !u.IsAbs() || u.Hostname() == "":
		return bad("absolute URL with host is required")
	case u.User != nil:
		return bad("userinfo is not allowed")
	case u.RawQuery != "" || u.Fragment != "":
		return bad("query and fragment are not allowed")
	case !strings.EqualFold(u.Scheme, "https"):
		return bad("https is required")
	}

	host := strings.ToLower(u.Hostname())
	if _, ok := hostSet(allowedHosts, p.DefaultHosts)[host]; !ok {
		return bad(fmt.Sprintf("host %q is not allowed", host))
	}
	return nil
}

func hostSet(allowed, defaults []string) map[string]struct{} {
	out := make(map[string]struct{}, len(allowed))
	for _, h := range allowed {
		if v := cleanHost(h); v != "" {
			out[v] = struct{}{}
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, h := range defaults {
		out[cleanHost(h)] = struct{}{}
	}
	return out
}

func cleanHost(h string) string {
	v := strings.ToLower(strings.TrimSpace(h))
	v = strings.TrimPrefix(v, "http://")
	v = strings.TrimPrefix(v, "https://")
	v = strings.Trim(v, "/")
	if i := strings.Index(v, ":"); i >= 0 {
		v = v[:i]
	}
	return v
}
