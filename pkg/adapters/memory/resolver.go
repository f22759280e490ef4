package memory

import "fmt"

// StaticResolver implements ports.CallbackResolver from a fixed map of
// target names to URLs. Useful in tests and in single-tenant deployments
// where every callback URL is known up front.
type StaticResolver map[string]string

// Resolve returns the URL registered for target.
func (r StaticResolver) Resolve(target string) (string, error) {
	url, ok := r[target]
	if !ok {
		return "", fmt.Errorf("unknown callback target %q", target)
	}
	return url, nil
}
