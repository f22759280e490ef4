package ports

import (
	"context"

	"github.com/mulesoft-labs/twiml/pkg/domain"
)

// CallStore defines the interface for persisting call state. Twilio delivers
// each webhook as an isolated request, so whatever a Gather or Record
// callback needs to know about earlier steps must go through here.
type CallStore interface {
	// Save persists the state for a given call SID.
	Save(ctx context.Context, callSID string, state *domain.CallState) error

	// Load retrieves the state for a given call SID.
	// Returns domain.ErrCallNotFound if the call does not exist.
	Load(ctx context.Context, callSID string) (*domain.CallState, error)

	// Delete removes the state for a given call SID.
	Delete(ctx context.Context, callSID string) error

	// List returns the SIDs of all stored calls.
	List(ctx context.Context) ([]string, error)
}
