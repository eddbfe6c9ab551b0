// Package core provides the foundational domain types shared by every other
// agentswarm package:
//
//   - Context and ContextStore (the shared key/value state of a conversation)
//   - Message and its closed set of Parts (text, tool calls, tool results)
//   - AgentInfo (the id/name pair used to tag streamed output)
//   - NewID for unique identifiers
//
// It has no dependency on the swarm runtime.
package core
