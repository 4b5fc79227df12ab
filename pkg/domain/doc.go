/*
Package domain contains the core types of the pacer interaction engine.

It defines the conversation model consumed by the dispatcher (Turns, History,
Metadata), the unit of simulated work (Phase, Plan, Outcome), the cooperative
cancellation flag shared by a request (Signal), and the values handed back to
the host (Result, Suggestion, Response). The package is kept pure and free of
I/O so that every other package can depend on it.

# Key Entities

  - Turn: one request or response unit of the host-owned History.
  - Metadata: the open key/value payload a scenario attaches to its result.
  - Plan: an immutable ordered list of named Phases with nominal durations.
  - Signal: a monotonic "cancellation requested" flag.
  - Suggestion: a follow-up action offered after a response.
*/
package domain
