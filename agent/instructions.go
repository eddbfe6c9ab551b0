package agent

import (
	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/internal/util"
)

// InstructionsFunc derives instruction text from the current context.
type InstructionsFunc func(ctx core.Context) (string, error)

// Instructions represents either a static instruction template or a dynamic
// function. This mirrors a union of string | func in a Go-idiomatic way.
type Instructions struct {
	text string
	fn   InstructionsFunc
}

// NewInstructionsFromText creates Instructions from a static template. The
// text is rendered with text/template against the context, so "{{.user}}"
// expands to the context value stored under "user".
func NewInstructionsFromText(text string) Instructions { return Instructions{text: text} }

// NewInstructionsFromFunc creates Instructions from a function.
func NewInstructionsFromFunc(fn InstructionsFunc) Instructions { return Instructions{fn: fn} }

// IsStatic returns true if the instructions are backed by a static template.
func (i Instructions) IsStatic() bool { return i.fn == nil }

// Resolve returns the instruction text for the given context.
func (i Instructions) Resolve(ctx core.Context) (string, error) {
	if i.fn != nil {
		return i.fn(ctx)
	}

	return util.RenderTemplate(i.text, ctx)
}
