/*
Package domain contains the entities shared by the TwiML host's ports and
adapters.

It defines the call state that survives between Twilio webhooks and the
errors stores report. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture
principles.

# Key Entities

  - CallState: Captures one call's progress through a flow (digits entered,
    recordings made, lifecycle status).
  - ErrCallNotFound: The sentinel every CallStore returns for unknown SIDs.
*/
package domain
