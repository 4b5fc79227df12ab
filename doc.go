/*
Package pacer is a conversational command dispatcher that demonstrates
progress reporting, cancellation and follow-up suggestions.

A request (free text plus an optional command token) is resolved to a
scenario. The scenario's handler drives a timed plan of phases, streams
progress notices and markdown fragments to a sink, and observes
cancellation only at phase boundaries. The response carries the fragments,
the scenario's metadata, and the suggestions for the next round.

The host owns the conversation history. The engine reads it and never
modifies it.

# Usage

	eng, err := pacer.New(pacer.WithTimeScale(0))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	var history domain.History

	req := domain.Request{Prompt: "show me the steps demo"}
	resp := eng.Handle(ctx, req, history, domain.Never, nil)

	history = append(history,
		domain.RequestTurn{Prompt: req.Prompt, Command: req.Command},
		resp.Result.Turn(),
	)

	for _, s := range resp.Suggestions {
		fmt.Println(s.Label)
	}

Hosts that keep several conversations use session.Manager, which serialises
the rounds of a session and records them in a ports.HistoryStore.

The five progress tools are available through Engine.Tools and are exposed
over MCP and HTTP by the adapters under pkg/adapters.
*/
package pacer
