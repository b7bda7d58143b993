package ghapi

import (
	"net/http"
)

const (
	// APIVersion is the GitHub REST API version every request pins.
	APIVersion = "2022-11-28"

	mediaType = "application/vnd.github+json"
	userAgent = "ghsecrets"
)

// authTransport decorates each request with the session token and the
// GitHub API headers.
type authTransport struct {
	token string
	base  http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "Bearer "+t.token)
	r.Header.Set("Accept", mediaType)
	r.Header.Set("X-GitHub-Api-Version", APIVersion)
	r.Header.Set("User-Agent", userAgent)

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(r)
}
