/*
Package scenario implements one handler per scenario identifier.

Each handler turns its narrative into one or more plans, drives them through
a phase.Runner and writes ephemeral progress notices and permanent fragments
to the response sink. A plan reporting cancellation ends the handler with a
single notice naming the phase it stopped at; fragments already written are
kept.

Handlers never let an external failure escape: workspace inspection errors
are rendered inline and the narrative continues. The returned error is
reserved for faults the handler could not anticipate.
*/
package scenario
