// Package middleware wraps a ports.HistoryStore to change how turns are
// persisted without touching the hosts that append them.
package middleware

import "github.com/aretw0/pacer/pkg/ports"

// Middleware allows wrapping a HistoryStore to add behavior.
type Middleware func(ports.HistoryStore) ports.HistoryStore

// Chain wraps store so that the first middleware sees each call first.
func Chain(store ports.HistoryStore, mws ...Middleware) ports.HistoryStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
