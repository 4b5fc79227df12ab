/*
Package phase executes ordered plans of named, timed phases with cooperative
cancellation.

The Runner checks the request signal at every phase boundary and only there:
once a phase has started it always sleeps its full (scaled) nominal duration.
Handlers get cancellation outcomes from the Runner instead of polling the
signal themselves.

# Usage

	r := phase.NewRunner(phase.WithTimeScale(0))
	out := r.Run(plan, signal, func(p domain.Phase, i, n int) {
		sink.Progress(fmt.Sprintf("%s (%d/%d)", p.Name, i, n))
	})
	if out.Cancelled {
		// phase out.At was never started
	}
*/
package phase
