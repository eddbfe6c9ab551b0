// Package swarm runs conversations across a set of cooperating agents.
//
// A Swarm starts with a root agent (the queen) and drives a turn loop: each
// turn invokes the model engine for the active agent with its rendered
// instructions, its adapted tools and the conversation so far. A turn ends
// the loop when the engine reports a terminal finish reason (stop, length,
// content-filter, error) or the assistant-turn ceiling is reached.
//
// # Handover
//
// Handover tools are never executed by the engine. When a turn ends on an
// unhandled handover call, the swarm runs the tool itself, switches the
// active agent, merges the returned context patch and records a synthetic
// tool result ("Handing over to agent <name>") directly after the
// originating assistant message. Only the first handover call of a turn is
// honored; further handover calls in the same message are removed so the
// history never contains tool calls without results.
//
// An agent with its own MaxTurns that used up exactly that many assistant
// turns is sent back to the queen while the global ceiling still allows more
// turns.
//
// # Streaming
//
// Stream runs the same loop in the background and returns immediately. Every
// turn's engine output is spliced into one ordered queue together with
// synthetic handover parts. Per-turn finish parts are dropped; a single
// finish part tagged with the terminal agent ends a successful stream.
// TextStream and FullStream are replayable views of that queue; the scalar
// accessors on StreamResult resolve when the loop finishes, whether or not
// the views were consumed.
//
// Example:
//
//	billing := agent.New("Billing", agent.WithInstructions("You handle invoices for {{.user}}."))
//	queen := agent.New("Queen", agent.WithTools(agent.HandoverTo(billing)))
//
//	s, err := swarm.New(queen, engine.New(openai.NewModel()), func(o *swarm.Options) {
//	    o.Context = core.Context{"user": "alice"}
//	})
//	if err != nil {
//	    return err
//	}
//
//	res, err := s.Generate(ctx, swarm.Input{Content: "I need help with billing"})
package swarm
