// Package tool adapts agent tools for a single model invocation.
//
// Adapt turns an agent's tagged tool set into the engine-facing model.Tool
// map:
//
//   - function tools are wrapped so a returned context patch is merged into
//     the conversation's ContextStore and only the result payload reaches
//     the model;
//   - tools declaring agent.ContextParam have that property hidden from the
//     advertised schema and receive the current context snapshot at call
//     time;
//   - handover tools are advertised without an executor so the engine stops
//     and returns the call for the swarm to resolve.
//
// Adaptation is cheap and done fresh for every invocation; adapted tools
// capture the store they were built with.
//
// The package also ships two generic context tools (NewGetContextTool,
// NewSetContextTool) that let a model read and write the shared context.
package tool
