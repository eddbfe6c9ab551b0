package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/model"
)

// CallbackType defines the specific lifecycle points where callbacks can be executed.
//
// Available callback types:
//   - BeforeModel/AfterModel: around every provider call
//   - BeforeTool/AfterTool: around individual tool executions
//   - OnError: when a generation fails
//
// Callbacks are executed synchronously and can influence execution flow
// by returning errors that terminate the generation.
type CallbackType string

const (
	// CallbackBeforeModel is triggered before a provider call.
	// Use for request inspection, caching, or rate limiting.
	CallbackBeforeModel CallbackType = "before_model"

	// CallbackAfterModel is triggered after a provider call returned its final response.
	CallbackAfterModel CallbackType = "after_model"

	// CallbackBeforeTool is triggered before tool execution.
	// Use for parameter checks, security checks, or auditing.
	CallbackBeforeTool CallbackType = "before_tool"

	// CallbackAfterTool is triggered after a tool executed successfully.
	CallbackAfterTool CallbackType = "after_tool"

	// CallbackOnError is triggered when a generation fails. Errors returned
	// by OnError callbacks are ignored.
	CallbackOnError CallbackType = "on_error"
)

// CallbackContext provides context information for callback execution. Only
// the fields relevant to CallbackType are set.
type CallbackContext struct {
	CallbackType CallbackType
	Step         int // zero-based step index

	Request    *model.ProviderRequest
	Response   *model.Response
	ToolCall   *core.ToolCallPart
	ToolResult *core.ToolResultPart
	Err        error

	// Metadata provides extensible storage for custom callback data.
	Metadata map[string]any
}

// Callback defines the interface for execution lifecycle hooks.
//
// Implementations should be fast (they block the generation) and safe for
// concurrent use, since tool callbacks fire from parallel executions.
type Callback interface {
	// Type returns the callback type this implementation handles.
	Type() CallbackType

	// Execute performs the callback logic with the provided context.
	// Returning an error will terminate the associated generation.
	Execute(ctx context.Context, callbackCtx *CallbackContext) error
}

// FunctionCallback wraps a function as a callback implementation.
//
// Example:
//
//	audit := NewFunctionCallback(
//	    CallbackBeforeTool,
//	    func(ctx context.Context, cc *CallbackContext) error {
//	        log.Printf("calling %s", cc.ToolCall.Name)
//	        return nil
//	    },
//	)
type FunctionCallback struct {
	callbackType CallbackType
	fn           func(ctx context.Context, callbackCtx *CallbackContext) error
}

// NewFunctionCallback creates a new function-based callback.
func NewFunctionCallback(
	callbackType CallbackType,
	fn func(ctx context.Context, callbackCtx *CallbackContext) error,
) *FunctionCallback {
	return &FunctionCallback{
		callbackType: callbackType,
		fn:           fn,
	}
}

// Type returns the callback type this function handles.
func (c *FunctionCallback) Type() CallbackType {
	return c.callbackType
}

// Execute calls the wrapped function with the provided context.
func (c *FunctionCallback) Execute(ctx context.Context, callbackCtx *CallbackContext) error {
	return c.fn(ctx, callbackCtx)
}

// CallbackManager is a registry of callbacks executed in registration order.
// Any callback returning an error stops the remaining ones.
//
// Registration and execution may happen from different goroutines.
type CallbackManager struct {
	mu        sync.RWMutex
	callbacks map[CallbackType][]Callback
}

// NewCallbackManager creates a new callback manager instance.
func NewCallbackManager() *CallbackManager {
	return &CallbackManager{
		callbacks: make(map[CallbackType][]Callback),
	}
}

// RegisterCallback adds a callback to the manager for its type.
func (cm *CallbackManager) RegisterCallback(callback Callback) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	callbackType := callback.Type()
	cm.callbacks[callbackType] = append(cm.callbacks[callbackType], callback)
}

// ExecuteCallbacks executes all registered callbacks for the specified type.
// A nil manager has no callbacks.
func (cm *CallbackManager) ExecuteCallbacks(
	ctx context.Context,
	callbackType CallbackType,
	callbackCtx *CallbackContext,
) error {
	if cm == nil {
		return nil
	}

	cm.mu.RLock()
	callbacks := cm.callbacks[callbackType]
	cm.mu.RUnlock()

	callbackCtx.CallbackType = callbackType

	for _, callback := range callbacks {
		if err := callback.Execute(ctx, callbackCtx); err != nil {
			return fmt.Errorf("%s callback: %w", callbackType, err)
		}
	}

	return nil
}

// LoggingCallback forwards lifecycle events to a logging function.
//
// Example:
//
//	logger := func(message string) {
//	    log.Printf("[ENGINE] %s", message)
//	}
//	callback := NewLoggingCallback(CallbackBeforeTool, logger)
type LoggingCallback struct {
	callbackType CallbackType
	logger       func(message string)
}

// NewLoggingCallback creates a new logging callback.
func NewLoggingCallback(callbackType CallbackType, logger func(message string)) *LoggingCallback {
	return &LoggingCallback{
		callbackType: callbackType,
		logger:       logger,
	}
}

// Type returns the callback type this logger handles.
func (c *LoggingCallback) Type() CallbackType {
	return c.callbackType
}

// Execute logs a one-line summary of the callback context.
func (c *LoggingCallback) Execute(_ context.Context, cc *CallbackContext) error {
	message := fmt.Sprintf("%s step=%d", cc.CallbackType, cc.Step)

	if cc.ToolCall != nil {
		message += fmt.Sprintf(" tool=%s call=%s", cc.ToolCall.Name, cc.ToolCall.ID)
	}

	if cc.Response != nil {
		message += fmt.Sprintf(" finish=%s", cc.Response.FinishReason)
	}

	if cc.Err != nil {
		message += fmt.Sprintf(" error=%v", cc.Err)
	}

	c.logger(message)

	return nil
}
