package http

import (
	"fmt"
	"net/url"

	"github.com/mulesoft-labs/twiml/pkg/ports"
)

// BaseURLResolver maps logical callback targets onto the host's own callback
// routes. Under base http://host:8080 the target "voicemail" resolves to
// http://host:8080/callbacks/voicemail, which the server answers by rendering
// the flow of the same name. Flows stay portable across deployments; only the
// base URL changes.
type BaseURLResolver struct {
	base *url.URL
}

var _ ports.CallbackResolver = (*BaseURLResolver)(nil)

// NewBaseURLResolver parses base and returns a resolver rooted at it. The
// base must be absolute, since Twilio fetches the resolved URLs from outside.
func NewBaseURLResolver(base string) (*BaseURLResolver, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q is not absolute", base)
	}
	return &BaseURLResolver{base: u}, nil
}

// Resolve implements ports.CallbackResolver.
func (r *BaseURLResolver) Resolve(target string) (string, error) {
	if target == "" {
		return "", fmt.Errorf("empty callback target")
	}
	return r.base.JoinPath("callbacks", target).String(), nil
}
