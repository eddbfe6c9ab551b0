package testutil

import (
	"github.com/hupe1980/agentswarm/core"
)

// ConversationBuilder helps construct a prior conversation (history plus
// context) with fluent chaining for tests.
// Example:
//
//	history, ctx := NewConversationBuilder().Context("user", "alice").User("hi").Assistant("queen", "hello").Build()
type ConversationBuilder struct {
	context  core.Context
	messages []core.Message
}

// NewConversationBuilder creates an empty builder.
func NewConversationBuilder() *ConversationBuilder {
	return &ConversationBuilder{context: core.Context{}}
}

// Context sets or overwrites a context key/value pair (chainable).
func (b *ConversationBuilder) Context(key string, val any) *ConversationBuilder {
	b.context[key] = val
	return b
}

// User appends a user message (chainable).
func (b *ConversationBuilder) User(text string) *ConversationBuilder {
	b.messages = append(b.messages, core.NewUserMessage(text))
	return b
}

// Assistant appends an assistant text message from sender (chainable).
func (b *ConversationBuilder) Assistant(sender, text string) *ConversationBuilder {
	b.messages = append(b.messages, NewMessageBuilder().Sender(sender).AssistantText(text).Build())
	return b
}

// Message appends a single message (chainable).
func (b *ConversationBuilder) Message(m core.Message) *ConversationBuilder {
	b.messages = append(b.messages, m)
	return b
}

// Build returns the history and a copy of the context.
func (b *ConversationBuilder) Build() ([]core.Message, core.Context) {
	return core.CloneMessages(b.messages), b.context.Clone()
}
