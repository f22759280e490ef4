package twiml

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mulesoft-labs/twiml/pkg/ports"
)

// Version is the module version, surfaced by the CLI.
const Version = "1.0.0"

// ContentType is the Content-Type header value TwiML documents must be
// served with.
const ContentType = "application/xml; charset=UTF-8"

const preamble = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// FragmentProducer supplies one rendered child fragment. Verb builders accept
// producers rather than strings so child content can be built lazily; a
// producer that fails aborts the parent verb before anything is emitted.
type FragmentProducer interface {
	Produce() (string, error)
}

// Fragment is a pre-rendered fragment that produces itself. It is the
// ordinary way to feed one builder's output into another.
type Fragment string

// Produce implements FragmentProducer.
func (f Fragment) Produce() (string, error) {
	return string(f), nil
}

// Engine builds TwiML verb fragments and documents. It is stateless apart
// from its configuration and safe for concurrent use. The zero-argument
// New() yields an engine that can build every verb except those carrying
// callback attributes, which additionally need a resolver.
type Engine struct {
	resolver ports.CallbackResolver
	logger   *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithResolver injects the resolver that maps logical callback targets to
// absolute URLs.
func WithResolver(r ports.CallbackResolver) Option {
	return func(e *Engine) {
		e.resolver = r
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes an Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return eng
}

// Response wraps already-built fragments in the document envelope, including
// the XML declaration. Child fragments are concatenated in argument order
// without separators.
func (e *Engine) Response(children ...FragmentProducer) (string, error) {
	body, err := produceAll(children)
	if err != nil {
		return "", fmt.Errorf("render response: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(preamble)
	sb.WriteString("<Response>\n")
	sb.WriteString(body)
	sb.WriteString("\n</Response>")

	doc := sb.String()
	e.logger.Debug("rendered response", "bytes", len(doc), "children", len(children))
	return doc, nil
}

// resolve maps a logical callback target through the configured resolver.
// Failures carry ErrMissingCallback: an empty target, a missing resolver, or
// a resolver miss all mean the finished document would point nowhere.
func (e *Engine) resolve(tag, attrName, target string) (string, error) {
	if target == "" {
		return "", fmt.Errorf("%w: %s %s is empty", ErrMissingCallback, tag, attrName)
	}
	if e.resolver == nil {
		return "", fmt.Errorf("%w: %s %s %q: no resolver configured", ErrMissingCallback, tag, attrName, target)
	}
	url, err := e.resolver.Resolve(target)
	if err != nil {
		return "", fmt.Errorf("%w: %s %s %q: %v", ErrMissingCallback, tag, attrName, target, err)
	}
	if url == "" {
		return "", fmt.Errorf("%w: %s %s %q resolved to empty URL", ErrMissingCallback, tag, attrName, target)
	}
	return url, nil
}

// produceAll renders child producers in order, failing on the first error.
func produceAll(children []FragmentProducer) (string, error) {
	var sb strings.Builder
	for i, c := range children {
		frag, err := c.Produce()
		if err != nil {
			return "", fmt.Errorf("child %d: %w", i, err)
		}
		sb.WriteString(frag)
	}
	return sb.String(), nil
}
