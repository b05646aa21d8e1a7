// Package mocks provides testify mocks for the ports interfaces.
package mocks

import (
	"github.com/stretchr/testify/mock"

	"clima.app/internal/ports"
)

// Logger is a mock implementation of ports.Logger.
// Fields are passed to Called as a single []ports.Field argument.
type Logger struct {
	mock.Mock
}

func (m *Logger) Debug(msg string, fields ...ports.Field) {
	m.Called(msg, fields)
}

func (m *Logger) Info(msg string, fields ...ports.Field) {
	m.Called(msg, fields)
}

func (m *Logger) Warn(msg string, fields ...ports.Field) {
	m.Called(msg, fields)
}

func (m *Logger) Error(msg string, fields ...ports.Field) {
	m.Called(msg, fields)
}

// NewLogger creates a Logger mock and asserts its expectations on cleanup.
func NewLogger(t interface {
	mock.TestingT
	Cleanup(func())
}) *Logger {
	m := &Logger{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// NewPermissiveLogger creates a Logger mock that accepts any call.
func NewPermissiveLogger(t interface {
	mock.TestingT
	Cleanup(func())
}) *Logger {
	m := NewLogger(t)
	for _, level := range []string{"Debug", "Info", "Warn", "Error"} {
		m.On(level, mock.Anything, mock.Anything).Maybe()
	}
	return m
}
