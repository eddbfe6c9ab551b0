package agent

import (
	"errors"
	"testing"

	"github.com/hupe1980/agentswarm/core"
)

func TestInstructions_Static(t *testing.T) {
	inst := NewInstructionsFromText("static instruction")
	if !inst.IsStatic() {
		t.Fatalf("expected static instructions")
	}

	got, err := inst.Resolve(core.Context{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "static instruction" {
		t.Fatalf("expected 'static instruction', got %q", got)
	}
}

func TestInstructions_StaticTemplate(t *testing.T) {
	inst := NewInstructionsFromText("Help {{.user}} with plan {{.plan}}.")

	got, err := inst.Resolve(core.Context{"user": "alice", "plan": "pro"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "Help alice with plan pro." {
		t.Fatalf("unexpected rendering %q", got)
	}
}

func TestInstructions_FromFunc(t *testing.T) {
	inst := NewInstructionsFromFunc(func(ctx core.Context) (string, error) {
		return "dynamic for " + ctx["user"].(string), nil
	})
	if inst.IsStatic() {
		t.Fatalf("expected dynamic instructions")
	}

	got, err := inst.Resolve(core.Context{"user": "bob"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "dynamic for bob" {
		t.Fatalf("expected 'dynamic for bob', got %q", got)
	}
}

func TestInstructions_ErrorPropagation(t *testing.T) {
	expectedErr := errors.New("boom")
	inst := NewInstructionsFromFunc(func(core.Context) (string, error) { return "", expectedErr })

	_, err := inst.Resolve(core.Context{})
	if !errors.Is(err, expectedErr) {
		t.Fatalf("expected error %v, got %v", expectedErr, err)
	}
}
