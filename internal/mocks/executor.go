package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockExecutor implements emfs.Executor for testing across packages
type MockExecutor struct {
	mock.Mock
}

func (m *MockExecutor) Execute(name string, content []byte) (int, error) {
	args := m.Called(name, content)

	// Handle function return types (for tests that inspect the payload)
	if fn, ok := args.Get(0).(func(string, []byte) int); ok {
		return fn(name, content), args.Error(1)
	}

	return args.Int(0), args.Error(1)
}
