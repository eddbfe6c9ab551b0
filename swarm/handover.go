package swarm

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"

	"github.com/hupe1980/agentswarm/agent"
	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/model"
)

// HandoverEvent describes an executed handover.
type HandoverEvent struct {
	ToolCallID string         `json:"tool_call_id"`
	ToolName   string         `json:"tool_name"`
	Args       map[string]any `json:"args,omitempty"` // model generated arguments
	Result     string         `json:"result"`
	From       core.AgentInfo `json:"from"`
	To         core.AgentInfo `json:"to"`
}

// pendingHandover is the honored handover call of a turn plus the extra
// handover calls to discard.
type pendingHandover struct {
	Call   core.ToolCallPart
	Tool   agent.Tool
	Extras map[string]struct{}
}

// findHandover picks the first unhandled call naming a handover tool of a.
func findHandover(a *agent.Agent, res *model.Result) (pendingHandover, bool) {
	var (
		h     pendingHandover
		found bool
	)

	for _, call := range res.UnhandledToolCalls() {
		t, ok := a.HandoverTool(call.Name)
		if !ok {
			continue
		}

		if !found {
			h = pendingHandover{Call: call, Tool: t, Extras: map[string]struct{}{}}
			found = true

			continue
		}

		h.Extras[call.ID] = struct{}{}
	}

	return h, found
}

// handover executes h and records it in st.Messages: extra handover calls
// are pruned and a synthetic result is spliced in right after the assistant
// message carrying the call. from is the index in st.Messages where this
// turn's messages start.
func (l *loop) handover(
	ctx context.Context,
	a *agent.Agent,
	h pendingHandover,
	store *core.ContextStore,
	st *loopState,
	from int,
) (*agent.Agent, error) {
	modelArgs, err := parseArgs(h.Call.Arguments)
	if err != nil {
		return nil, fmt.Errorf("handover %s: %w", h.Call.Name, err)
	}

	args := store.Get()
	maps.Copy(args, modelArgs)

	res, err := h.Tool.Handover(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("handover %s: %w", h.Call.Name, err)
	}

	if res.Agent == nil {
		return nil, fmt.Errorf("%w: %s", ErrHandoverWithoutAgent, h.Call.Name)
	}

	store.Merge(res.Context)

	text := fmt.Sprintf("Handing over to agent %s", res.Agent.Name)
	result := core.ToolResultPart{ToolCallID: h.Call.ID, ToolName: h.Call.Name, Result: text}

	st.Messages = spliceHandoverResult(st.Messages, from, a.Name, h, result)

	if len(h.Extras) > 0 {
		l.logger.Warn("swarm.handover.pruned", "agent", a.Name, "count", len(h.Extras))
	}

	l.logger.Info("swarm.handover.applied", "from", a.Name, "to", res.Agent.Name, "tool", h.Call.Name)

	if l.onHandover != nil {
		l.onHandover(HandoverEvent{
			ToolCallID: h.Call.ID,
			ToolName:   h.Call.Name,
			Args:       modelArgs,
			Result:     text,
			From:       a.Info(),
			To:         res.Agent.Info(),
		})
	}

	return res.Agent, nil
}

// spliceHandoverResult returns a copy of msgs where the assistant message
// carrying h.Call (searched from index from on) lost its extra handover
// calls and is followed by a tool message holding result.
func spliceHandoverResult(msgs []core.Message, from int, sender string, h pendingHandover, result core.ToolResultPart) []core.Message {
	out := core.CloneMessages(msgs)

	idx := -1

	for i := len(out) - 1; i >= from; i-- {
		if out[i].Role == core.RoleAssistant && hasCall(out[i], h.Call.ID) {
			idx = i
			break
		}
	}

	if idx < 0 { // engine did not report the message; keep history consistent anyway
		m := core.NewAssistantMessage(h.Call)
		m.Sender = sender
		out = append(out, m)
		idx = len(out) - 1
	}

	if len(h.Extras) > 0 {
		parts := out[idx].Parts[:0:0]

		for _, p := range out[idx].Parts {
			if tc, ok := p.(core.ToolCallPart); ok {
				if _, extra := h.Extras[tc.ID]; extra {
					continue
				}
			}

			parts = append(parts, p)
		}

		out[idx].Parts = parts
	}

	if idx+1 < len(out) && out[idx+1].Role == core.RoleTool {
		out[idx+1].Parts = append(out[idx+1].Parts, result)
		return out
	}

	out = append(out[:idx+1], append([]core.Message{core.NewToolMessage(result)}, out[idx+1:]...)...)

	return out
}

func hasCall(m core.Message, id string) bool {
	for _, tc := range m.ToolCalls() {
		if tc.ID == id {
			return true
		}
	}

	return false
}

func parseArgs(raw string) (map[string]any, error) {
	args := map[string]any{}
	if raw == "" {
		return args, nil
	}

	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	if args == nil {
		args = map[string]any{}
	}

	return args, nil
}
