// Package agent defines the agents a swarm coordinates.
//
// An Agent is a plain value: a name, instructions rendered against the shared
// conversation context, a set of tools, and optional model, turn-cap and
// tool-choice overrides. The swarm never mutates an Agent; it only swaps which
// one is active.
//
// Tools form a closed tagged union over two kinds:
//
//   - KindFunction tools run a Go function and may return a context patch
//     alongside their result.
//   - KindHandover tools transfer control to another agent. They are never
//     executed by the model engine; the swarm intercepts the call.
//
// A tool whose parameter schema declares ContextParam receives the current
// context snapshot under that key at call time; the property is hidden from
// the model.
package agent
