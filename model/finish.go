package model

// FinishReason explains why a model call or a multi-step generation ended.
type FinishReason string

const (
	FinishReasonStop          FinishReason = "stop"
	FinishReasonLength        FinishReason = "length"
	FinishReasonContentFilter FinishReason = "content-filter"
	FinishReasonToolCalls     FinishReason = "tool-calls"
	FinishReasonError         FinishReason = "error"
	FinishReasonOther         FinishReason = "other"
	FinishReasonUnknown       FinishReason = "unknown"
)

// Terminal reports whether the reason ends a conversation turn for good:
// stop, length, content-filter and error are terminal, everything else
// (notably tool-calls) leaves room for another turn.
func (r FinishReason) Terminal() bool {
	switch r {
	case FinishReasonStop, FinishReasonLength, FinishReasonContentFilter, FinishReasonError:
		return true
	default:
		return false
	}
}

// ToolChoiceType selects how the model may use tools.
type ToolChoiceType string

const (
	ToolChoiceAuto     ToolChoiceType = "auto"
	ToolChoiceNone     ToolChoiceType = "none"
	ToolChoiceRequired ToolChoiceType = "required"
	ToolChoiceTool     ToolChoiceType = "tool" // force ToolName
)

// ToolChoice is the per-call tool usage policy. The zero value means "let
// the caller decide".
type ToolChoice struct {
	Type     ToolChoiceType `json:"type,omitempty" yaml:"type,omitempty"`
	ToolName string         `json:"tool_name,omitempty" yaml:"tool_name,omitempty"`
}

// IsZero reports whether no policy was set.
func (c ToolChoice) IsZero() bool { return c.Type == "" }

// AutoToolChoice lets the model decide.
func AutoToolChoice() ToolChoice { return ToolChoice{Type: ToolChoiceAuto} }

// NoneToolChoice forbids tool calls.
func NoneToolChoice() ToolChoice { return ToolChoice{Type: ToolChoiceNone} }

// RequiredToolChoice forces at least one tool call.
func RequiredToolChoice() ToolChoice { return ToolChoice{Type: ToolChoiceRequired} }

// SpecificToolChoice forces a call of the named tool.
func SpecificToolChoice(name string) ToolChoice {
	return ToolChoice{Type: ToolChoiceTool, ToolName: name}
}

// ParseToolChoice maps "auto", "none", "required" or a tool name to a
// ToolChoice. The empty string yields the zero value.
func ParseToolChoice(s string) ToolChoice {
	switch s {
	case "":
		return ToolChoice{}
	case string(ToolChoiceAuto):
		return AutoToolChoice()
	case string(ToolChoiceNone):
		return NoneToolChoice()
	case string(ToolChoiceRequired):
		return RequiredToolChoice()
	default:
		return SpecificToolChoice(s)
	}
}
