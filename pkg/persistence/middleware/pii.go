package middleware

import (
	"context"
	"regexp"

	"github.com/mulesoft-labs/twiml/pkg/domain"
	"github.com/mulesoft-labs/twiml/pkg/ports"
)

type piiMiddleware struct {
	next     ports.CallStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks call state before it is
// persisted. Patterns match the state's field names (from, to, transcription,
// recording_url) and the target names keyed in Digits, so a gather named
// "collect-ssn" can be masked by the pattern "ssn".
//
// Masked values do not round-trip; mask only what no later flow step reads
// back.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.CallStore) ports.CallStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

const masked = "***"

func (m *piiMiddleware) Save(ctx context.Context, callSID string, state *domain.CallState) error {
	// Clone so the in-memory state the handler keeps using is untouched.
	cloned := state.Clone()

	if m.matches("from") && cloned.From != "" {
		cloned.From = masked
	}
	if m.matches("to") && cloned.To != "" {
		cloned.To = masked
	}
	if m.matches("transcription") && cloned.Transcription != "" {
		cloned.Transcription = masked
	}
	if m.matches("recording_url") && cloned.RecordingURL != "" {
		cloned.RecordingURL = masked
	}
	for target := range cloned.Digits {
		if m.matches(target) {
			cloned.Digits[target] = masked
		}
	}

	return m.next.Save(ctx, callSID, cloned)
}

func (m *piiMiddleware) matches(name string) bool {
	for _, p := range m.patterns {
		if p.MatchString(name) {
			return true
		}
	}
	return false
}

func (m *piiMiddleware) Load(ctx context.Context, callSID string) (*domain.CallState, error) {
	return m.next.Load(ctx, callSID)
}

func (m *piiMiddleware) Delete(ctx context.Context, callSID string) error {
	return m.next.Delete(ctx, callSID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
