package middleware

import "github.com/mulesoft-labs/twiml/pkg/ports"

// Middleware allows wrapping a CallStore to add behavior.
type Middleware func(ports.CallStore) ports.CallStore
