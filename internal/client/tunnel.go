package client

import (
	"net/http"
	"net/url"
	"strings"
)

// tunnelUserAgent is the player user agent the tunnel fronts expect.
const tunnelUserAgent = "Mozilla/5.0 (Linux) AppleWebkit/534.30 (KHTML, like Gecko) PT/3.8.0"

// tunnelFronts maps a pseudo-scheme prefix (the part before "+") to the host
// that actually receives the connection.
var tunnelFronts = map[string]string{
	"cloudflare": "cloudflare.com",
}

// requestOptions describes a single GET issued against one endpoint.
type requestOptions struct {
	URL    string
	Host   string // overrides the Host header when set
	Header http.Header
}

func newRequestOptions(target, userAgent string) requestOptions {
	header := make(http.Header)
	header.Set("Accept", "application/json")
	header.Set("User-Agent", userAgent)
	return requestOptions{URL: target, Header: header}
}

func (o requestOptions) clone() requestOptions {
	o.Header = o.Header.Clone()
	return o
}

// applyTunnel rewrites opts when base uses a tunnel pseudo-scheme such as
// "cloudflare+https://mirror.example/". The connection goes to the tunnel
// front while the mirror host travels in the Host header. Path and query of
// opts.URL are kept. opts is never modified; unknown or absent tunnels return
// it unchanged.
func applyTunnel(opts requestOptions, base string) requestOptions {
	front, scheme, ok := tunnelFront(base)
	if !ok {
		return opts
	}

	target, err := url.Parse(opts.URL)
	if err != nil {
		return opts
	}

	out := opts.clone()
	out.Host = target.Host
	rewritten := *target
	rewritten.Scheme = scheme
	rewritten.Host = front
	out.URL = rewritten.String()
	out.Header.Set("User-Agent", tunnelUserAgent)
	return out
}

// tunnelFront resolves the tunnel pseudo-scheme of base. It returns the front
// host and the real scheme, and ok is false when base has no known tunnel.
// url.Parse lower-cases the scheme, so the lookup is case insensitive.
func tunnelFront(base string) (front, scheme string, ok bool) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", "", false
	}
	tunnel, scheme, found := strings.Cut(baseURL.Scheme, "+")
	if !found {
		return "", "", false
	}
	front, ok = tunnelFronts[tunnel]
	if !ok {
		return "", "", false
	}
	return front, scheme, true
}

// hasTunnel reports whether base carries a pseudo-scheme this client knows how to route.
func hasTunnel(base string) bool {
	_, _, ok := tunnelFront(base)
	return ok
}
