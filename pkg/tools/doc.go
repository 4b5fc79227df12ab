/*
Package tools exposes the phase-driven demos as independently invocable
operations with typed, schema-validated input.

Every tool follows the same contract: Prepare describes the pending call,
Invoke runs it. Absent fields take their documented defaults. Cancellation
is a normal outcome: the partial text is returned with a trailing notice and
a nil error. Errors are reserved for malformed input.
*/
package tools
