package ports

// CallbackResolver maps a logical callback target to the absolute URL Twilio
// should request. Flows name targets ("voicemail", "support-menu") and stay
// portable; the deployment decides what those names point at.
type CallbackResolver interface {
	// Resolve returns the URL for a target. An error means the target is
	// unknown or no URL can be built for it.
	Resolve(target string) (string, error)
}

// ResolverFunc adapts a plain function to the CallbackResolver interface.
type ResolverFunc func(target string) (string, error)

// Resolve implements CallbackResolver.
func (f ResolverFunc) Resolve(target string) (string, error) {
	return f(target)
}
