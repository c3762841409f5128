// Package testutil holds step doubles for operations tests.
package testutil

import (
	"context"
	"sync"

	"returnscli/internal/operations"
)

// MockStep is a configurable implementation of operations.Step
type MockStep struct {
	IDValue   string
	NameValue string

	ExecuteFunc  func(ctx context.Context, state *operations.OperationState) error
	ValidateFunc func(state *operations.OperationState) error

	mu           sync.Mutex
	ExecuteCalls int
}

// NewMockStep returns a step that succeeds
func NewMockStep(id string) *MockStep {
	return &MockStep{IDValue: id, NameValue: "Mock " + id}
}

// NewFailingStep returns a step whose Execute returns err
func NewFailingStep(id string, err error) *MockStep {
	s := NewMockStep(id)
	s.ExecuteFunc = func(context.Context, *operations.OperationState) error { return err }
	return s
}

// ID returns the step ID
func (m *MockStep) ID() string { return m.IDValue }

// Name returns the step name
func (m *MockStep) Name() string { return m.NameValue }

// Validate calls ValidateFunc when set
func (m *MockStep) Validate(state *operations.OperationState) error {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(state)
	}
	return nil
}

// Execute counts the call and delegates to ExecuteFunc
func (m *MockStep) Execute(ctx context.Context, state *operations.OperationState) error {
	m.mu.Lock()
	m.ExecuteCalls++
	m.mu.Unlock()
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, state)
	}
	return nil
}

// Calls returns how often Execute ran
func (m *MockStep) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ExecuteCalls
}
