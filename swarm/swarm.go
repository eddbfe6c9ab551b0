package swarm

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/agentswarm/agent"
	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/logging"
	"github.com/hupe1980/agentswarm/model"
)

// Swarm holds one conversation: its history, shared context and active
// agent. Invocations are sequential; a Swarm rejects a second invocation
// while one is running.
type Swarm struct {
	queen  *agent.Agent
	engine model.Engine
	opts   Options
	logger logging.Logger

	mu      sync.RWMutex // guards the fields below
	active  *agent.Agent
	context core.Context
	history []core.Message

	running atomic.Bool
}

// New creates a Swarm rooted at queen.
func New(queen *agent.Agent, engine model.Engine, optFns ...func(o *Options)) (*Swarm, error) {
	if queen == nil {
		return nil, ErrNoQueen
	}

	if engine == nil {
		return nil, fmt.Errorf("swarm: engine is required")
	}

	if err := queen.Validate(); err != nil {
		return nil, fmt.Errorf("swarm: invalid queen: %w", err)
	}

	opts := Options{MaxTurns: DefaultMaxTurns}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.MaxTurns <= 0 {
		opts.MaxTurns = DefaultMaxTurns
	}

	return &Swarm{
		queen:   queen,
		engine:  engine,
		opts:    opts,
		logger:  logging.With(opts.Logger, "queen", queen.Name),
		active:  queen,
		context: opts.Context.Clone(),
	}, nil
}

// Generate runs the turn loop to completion.
func (s *Swarm) Generate(ctx context.Context, input Input) (*Result, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrInvocationInProgress
	}
	defer s.running.Store(false)

	l, st, base := s.prepare(input)
	l.invoke = func(ctx context.Context, _ *agent.Agent, req model.Request) (*model.Result, error) {
		return s.engine.Generate(ctx, req)
	}

	s.logger.Info("swarm.invocation.start", "agent", st.Agent.Name, "mode", "generate", "max_turns", l.ceiling)

	s.stage(base, st.Context)

	final, err := l.run(ctx, st)
	if err != nil {
		s.fail(final, err)
		return nil, err
	}

	return s.commit(final, base, input), nil
}

// Stream starts the turn loop in the background and returns immediately.
func (s *Swarm) Stream(ctx context.Context, input Input) (*StreamResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrInvocationInProgress
	}

	sr := newStreamResult()

	l, st, base := s.prepare(input)
	l.invoke = func(ctx context.Context, a *agent.Agent, req model.Request) (*model.Result, error) {
		r, err := s.engine.Stream(ctx, req)
		if err != nil {
			return nil, err
		}

		info := a.Info()
		annotated := make(chan Part)

		go func() {
			defer close(annotated)

			for p := range r.Parts {
				// one finish part closes the whole stream
				if p.Type == model.StreamPartFinish {
					continue
				}

				annotated <- Part{StreamPart: p, Agent: info}
			}
		}()

		if err := sr.queue.Splice(annotated); err != nil {
			return nil, err
		}

		return r.Result(ctx)
	}
	l.onHandover = func(ev HandoverEvent) {
		_ = sr.queue.Push(Part{
			StreamPart: model.StreamPart{Type: PartTypeHandover},
			Agent:      ev.From,
			Handover:   &ev,
		})
	}

	s.logger.Info("swarm.invocation.start", "agent", st.Agent.Name, "mode", "stream", "max_turns", l.ceiling)

	s.stage(base, st.Context)

	go func() {
		final, err := l.run(ctx, st)
		if err != nil {
			s.fail(final, err)
			_ = sr.queue.Close()

			s.running.Store(false)
			sr.result.Reject(err)

			return
		}

		res := s.commit(final, base, input)

		_ = sr.queue.Push(Part{
			StreamPart: model.StreamPart{Type: model.StreamPartFinish, FinishReason: res.FinishReason},
			Agent:      res.ActiveAgent.Info(),
		})
		_ = sr.queue.Close()

		s.running.Store(false)
		sr.result.Resolve(res)
	}()

	return sr, nil
}

func validateInput(input Input) error {
	if input.Content != "" && input.Messages != nil {
		return ErrAmbiguousInput
	}

	return nil
}

// prepare builds the loop and its initial state from the stored
// conversation and the input. base is the history the produced messages
// are appended to.
func (s *Swarm) prepare(input Input) (*loop, loopState, []core.Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var base []core.Message

	switch {
	case input.Messages != nil:
		base = core.CloneMessages(input.Messages)
	case input.Content != "":
		base = append(core.CloneMessages(s.history), core.NewUserMessage(input.Content))
	default:
		base = core.CloneMessages(s.history)
	}

	active := s.active
	if input.Agent != nil {
		active = input.Agent
	}

	ceiling := s.opts.MaxTurns
	if input.MaxTurns > 0 {
		ceiling = input.MaxTurns
	}

	l := &loop{
		queen:        s.queen,
		history:      base,
		ceiling:      ceiling,
		defaultModel: s.opts.Model,
		observer:     input.OnStep,
		logger:       s.logger,
	}

	st := loopState{
		Agent:   active,
		Context: s.context.Merge(input.Context),
	}

	return l, st, base
}

// stage stores the history and context an invocation starts from. They stay
// in place even if the invocation fails.
func (s *Swarm) stage(base []core.Message, c core.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = core.CloneMessages(base)
	s.context = c.Clone()
}

// fail keeps the context and active agent reached before err. Messages of
// the failed invocation are not appended.
func (s *Swarm) fail(st loopState, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.context = st.Context.Clone()
	s.active = st.Agent

	s.logger.Error("swarm.invocation.error", "agent", st.Agent.Name, "turns", st.Turns, "error", err.Error())
}

// commit stores the outcome of a successful loop and builds the Result.
func (s *Swarm) commit(st loopState, base []core.Message, input Input) *Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(base, st.Messages...)
	s.context = st.Context
	s.active = st.Agent

	if input.ReturnToQueen {
		s.active = s.queen
	}

	s.logger.Info(
		"swarm.invocation.complete",
		"agent", st.Agent.Name,
		"finish_reason", string(st.FinishReason),
		"turns", st.Turns,
		"messages", len(st.Messages),
	)

	return &Result{
		FinishReason: st.FinishReason,
		ActiveAgent:  st.Agent,
		Text:         st.Text,
		Messages:     core.CloneMessages(st.Messages),
		Context:      st.Context.Clone(),
	}
}

// History returns a copy of the conversation history.
func (s *Swarm) History() []core.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return core.CloneMessages(s.history)
}

// Context returns the current context snapshot.
func (s *Swarm) Context() core.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.context.Clone()
}

// ActiveAgent returns the agent the next invocation starts with.
func (s *Swarm) ActiveAgent() *agent.Agent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.active
}

// Queen returns the root agent.
func (s *Swarm) Queen() *agent.Agent { return s.queen }

// Reset clears the history and restores the initial context and the queen.
func (s *Swarm) Reset() error {
	if s.running.Load() {
		return ErrInvocationInProgress
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = nil
	s.context = s.opts.Context.Clone()
	s.active = s.queen

	return nil
}
