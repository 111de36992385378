// Package mocks provides testify mocks for the domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"reimport.dev/pkg/reimport/internal/domain"
	m "reimport.dev/pkg/reimport/internal/model"
)

// MockWorkflow is a mock implementation of domain.Workflow.
type MockWorkflow struct {
	mock.Mock
}

var _ domain.Workflow = (*MockWorkflow)(nil)

// NewMockWorkflow creates a MockWorkflow whose expectations are asserted
// when the test finishes.
func NewMockWorkflow(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWorkflow {
	wf := &MockWorkflow{}
	wf.Test(t)

	t.Cleanup(func() { wf.AssertExpectations(t) })

	return wf
}

// Run provides a mock function.
func (_m *MockWorkflow) Run(ctx context.Context, args domain.RunArgs) (m.RunResult, error) {
	ret := _m.Called(ctx, args)

	result, _ := ret.Get(0).(m.RunResult)

	return result, ret.Error(1)
}

// Plan provides a mock function.
func (_m *MockWorkflow) Plan(ctx context.Context, args domain.ScanArgs) ([]m.Preview, error) {
	ret := _m.Called(ctx, args)

	previews, _ := ret.Get(0).([]m.Preview)

	return previews, ret.Error(1)
}

// Rules provides a mock function.
func (_m *MockWorkflow) Rules(ctx context.Context) error {
	ret := _m.Called(ctx)

	return ret.Error(0)
}
