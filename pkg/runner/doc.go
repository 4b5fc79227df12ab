/*
Package runner implements the interactive conversation loop.

It is the bridge between the dispatcher and a terminal or a pipe: it reads
requests through an IOHandler, dispatches them with the session's history,
streams progress and fragments back, and shows the followups. Ctrl+C while
a request runs cancels that request only; at the prompt it ends the loop.

# Key Components

  - Runner: the loop.
  - IOHandler: decouples how requests are read and responses written.
  - TextHandler: line-based terminal interaction (`/command prompt`).
  - JSONHandler: JSON-Lines events for scripted hosts.

# Usage

	r := runner.NewRunner(dispatcher,
		runner.WithSessionID("user-1"),
		runner.WithSessions(session.NewManager(memory.NewStore())),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
