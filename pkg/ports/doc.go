/*
Package ports defines the driven ports (interfaces) of the pacer engine.

These interfaces decouple the interaction engine from its collaborators so
that the same scenarios run unchanged behind a terminal, an HTTP server or an
MCP client.

# Key Interfaces

  - Sink: the one-way output stream a scenario writes progress and text to.
  - Workspace: the read-only inspection of the user's workspace used for narrative.
  - HistoryStore: host-side storage of conversation turns per session.
  - SessionLocker: serialises turns of one session across replicas.
*/
package ports
