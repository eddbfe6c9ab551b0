// Package model defines the provider‑agnostic abstractions for interacting
// with language models inside agentswarm.
//
// Two layers live here:
//   - Provider: a single model call (streaming or not) over a normalized
//     message list, implemented by model/openai and model/anthropic.
//   - Engine: a multi-step generation loop that executes tools between model
//     calls and stops on calls it cannot handle. The swarm drives agents
//     exclusively through this contract; package engine ships the default
//     implementation on top of a Provider.
//
// FinishReason and ToolChoice are shared by both layers so vendor specifics
// never leak into the orchestration code.
package model
