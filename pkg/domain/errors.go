package domain

import "errors"

// ErrUnknownScenario is returned when no handler is registered for a scenario.
var ErrUnknownScenario = errors.New("unknown scenario")

// ErrUnknownTool is returned when a tool name is not registered.
var ErrUnknownTool = errors.New("unknown tool")

// ErrInvalidInput is returned when tool input does not match its schema.
var ErrInvalidInput = errors.New("invalid input")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrLockAcquire is returned when a session lock cannot be acquired.
var ErrLockAcquire = errors.New("failed to acquire session lock")
