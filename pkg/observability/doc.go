/*
Package observability turns lifecycle hooks into Prometheus metrics and debug
logs.

Both are plain domain.LifecycleHooks values, merged and handed to the
dispatcher, the phase runner and the tool registry:

	m := observability.NewMetrics()
	hooks := m.Hooks().Merge(observability.DebugHooks(logger))
*/
package observability
