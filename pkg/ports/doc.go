/*
Package ports defines the driven ports (interfaces) for the TwiML engine and
its webhook host.

These interfaces decouple document building from deployment concerns, allowing
the engine to work with various callback URL schemes and call state backends.

# Key Interfaces

  - CallbackResolver: Maps logical callback targets to absolute URLs.
  - CallStore: Persists call state between webhook invocations.
*/
package ports
