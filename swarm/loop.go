package swarm

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentswarm/agent"
	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/logging"
	"github.com/hupe1980/agentswarm/model"
	"github.com/hupe1980/agentswarm/tool"
)

// loopState is threaded through the turn loop. Each turn takes a state and
// returns the next one; nothing outside the loop mutates it.
type loopState struct {
	Agent        *agent.Agent
	Context      core.Context
	Messages     []core.Message // produced during this invocation
	Turns        int            // assistant messages in Messages
	FinishReason model.FinishReason
	Text         string
}

// invokeFunc runs one engine invocation for the active agent. The blocking
// and streaming modes differ only here.
type invokeFunc func(ctx context.Context, a *agent.Agent, req model.Request) (*model.Result, error)

type loop struct {
	queen        *agent.Agent
	history      []core.Message // conversation before this invocation, fixed
	ceiling      int
	defaultModel string
	invoke       invokeFunc
	onHandover   func(HandoverEvent)
	observer     StepObserver
	logger       logging.Logger
}

// run drives turns until the loop is done. On error the returned state is
// the last completed turn's, with the context reached by the failing turn.
func (l *loop) run(ctx context.Context, st loopState) (loopState, error) {
	for {
		next, done, err := l.turn(ctx, st)
		if err != nil {
			return next, err
		}

		st = next

		if done || st.Turns >= l.ceiling {
			return st, nil
		}
	}
}

// turn performs one engine invocation for st.Agent and resolves at most one
// handover. done reports that the loop must stop regardless of the ceiling.
func (l *loop) turn(ctx context.Context, st loopState) (next loopState, done bool, err error) {
	a := st.Agent
	store := core.NewContextStore(st.Context)

	defer func() {
		if err != nil {
			// patches merged by tools that already ran are kept
			next = st
			next.Context = store.Get()
		}
	}()

	l.logger.Debug("swarm.turn.start", "agent", a.Name, "turns", st.Turns)

	system, err := a.ResolveInstructions(store.Get())
	if err != nil {
		return st, false, err
	}

	tools, err := tool.Adapt(a.Tools, store, func(o *tool.Options) { o.Logger = l.logger })
	if err != nil {
		return st, false, fmt.Errorf("agent %s: %w", a.Name, err)
	}

	maxSteps := l.ceiling
	if a.MaxTurns > 0 {
		maxSteps = a.MaxTurns
	}

	modelName := l.defaultModel
	if a.Model != "" {
		modelName = a.Model
	}

	messages := make([]core.Message, 0, len(l.history)+len(st.Messages))
	messages = append(messages, l.history...)
	messages = append(messages, st.Messages...)

	req := model.Request{
		Model:        modelName,
		System:       system,
		Tools:        tools,
		MaxSteps:     maxSteps,
		ToolChoice:   a.EffectiveToolChoice(),
		OnStepFinish: l.stepObserver(store),
		Messages:     messages,
	}

	res, err := l.invoke(ctx, a, req)
	if err != nil {
		return st, false, fmt.Errorf("agent %s: %w", a.Name, err)
	}

	produced := tagSender(res.ResponseMessages, a.Name)
	producedTurns := core.CountRole(produced, core.RoleAssistant)

	next = st
	next.Messages = append(core.CloneMessages(st.Messages), produced...)
	next.Turns += producedTurns
	next.FinishReason = res.FinishReason
	next.Text += res.Text

	l.logger.Debug(
		"swarm.turn.complete",
		"agent", a.Name,
		"finish_reason", string(res.FinishReason),
		"messages", len(produced),
		"turns", next.Turns,
	)

	if res.FinishReason.Terminal() {
		next.Context = store.Get()
		return next, true, nil
	}

	handedOver := false

	if h, ok := findHandover(a, res); ok {
		to, err := l.handover(ctx, a, h, store, &next, len(st.Messages))
		if err != nil {
			return st, false, err
		}

		next.Agent = to
		handedOver = true
	}

	if a.MaxTurns > 0 && producedTurns == a.MaxTurns && next.Turns < l.ceiling {
		l.logger.Info("swarm.agent.returned_to_queen", "agent", a.Name, "max_turns", a.MaxTurns)
		next.Agent = l.queen
	}

	next.Context = store.Get()

	if producedTurns == 0 && !handedOver {
		l.logger.Warn("swarm.turn.no_progress", "agent", a.Name, "finish_reason", string(res.FinishReason))
		return next, true, nil
	}

	return next, false, nil
}

// stepObserver adapts the invocation observer to the engine callback. The
// observer sees the context as of the end of the step.
func (l *loop) stepObserver(store *core.ContextStore) model.StepFinishFunc {
	if l.observer == nil {
		return nil
	}

	return func(ctx context.Context, step model.StepResult) error {
		defer func() {
			if r := recover(); r != nil {
				l.logger.Warn("swarm.observer.failed", "error", fmt.Sprintf("panic: %v", r))
			}
		}()

		if err := l.observer(ctx, step, store.Get()); err != nil {
			l.logger.Warn("swarm.observer.failed", "error", err.Error())
		}

		return nil
	}
}

// tagSender copies msgs, setting Sender on assistant messages.
func tagSender(msgs []core.Message, sender string) []core.Message {
	out := core.CloneMessages(msgs)
	for i := range out {
		if out[i].Role == core.RoleAssistant {
			out[i].Sender = sender
		}
	}

	return out
}
