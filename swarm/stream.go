package swarm

import (
	"context"
	"iter"

	"github.com/hupe1980/agentswarm/agent"
	"github.com/hupe1980/agentswarm/async"
	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/model"
)

// PartTypeHandover marks a synthetic handover part.
const PartTypeHandover model.StreamPartType = "handover"

// Part is one element of a swarm stream, tagged with the agent that was
// active when it was produced. Handover parts carry Handover.
type Part struct {
	model.StreamPart
	Agent    core.AgentInfo `json:"agent"`
	Handover *HandoverEvent `json:"handover,omitempty"`
}

// StreamResult is a running swarm invocation.
type StreamResult struct {
	queue  *async.Queue[Part]
	result *async.Future[*Result]
}

func newStreamResult() *StreamResult {
	return &StreamResult{
		queue:  async.NewQueue[Part](),
		result: async.NewFuture[*Result](),
	}
}

// FullStream yields every part of the invocation in order. Each call
// returns an independent reader starting at the first part.
func (r *StreamResult) FullStream(ctx context.Context) iter.Seq[Part] {
	return r.queue.All(ctx)
}

// TextStream yields only the text deltas.
func (r *StreamResult) TextStream(ctx context.Context) iter.Seq[string] {
	return func(yield func(string) bool) {
		for p := range r.queue.All(ctx) {
			if p.Type != model.StreamPartTextDelta {
				continue
			}

			if !yield(p.TextDelta) {
				return
			}
		}
	}
}

// Done is closed when the invocation finished.
func (r *StreamResult) Done() <-chan struct{} { return r.result.Done() }

// Result waits for the invocation to finish.
func (r *StreamResult) Result(ctx context.Context) (*Result, error) {
	return r.result.Wait(ctx)
}

// FinishReason waits for the final finish reason.
func (r *StreamResult) FinishReason(ctx context.Context) (model.FinishReason, error) {
	res, err := r.Result(ctx)
	if err != nil {
		return "", err
	}

	return res.FinishReason, nil
}

// ActiveAgent waits for the agent that finished the invocation.
func (r *StreamResult) ActiveAgent(ctx context.Context) (*agent.Agent, error) {
	res, err := r.Result(ctx)
	if err != nil {
		return nil, err
	}

	return res.ActiveAgent, nil
}

// Text waits for the concatenated text of all turns.
func (r *StreamResult) Text(ctx context.Context) (string, error) {
	res, err := r.Result(ctx)
	if err != nil {
		return "", err
	}

	return res.Text, nil
}

// Messages waits for the messages produced during the invocation.
func (r *StreamResult) Messages(ctx context.Context) ([]core.Message, error) {
	res, err := r.Result(ctx)
	if err != nil {
		return nil, err
	}

	return res.Messages, nil
}

// Context waits for the final context snapshot.
func (r *StreamResult) Context(ctx context.Context) (core.Context, error) {
	res, err := r.Result(ctx)
	if err != nil {
		return nil, err
	}

	return res.Context, nil
}
