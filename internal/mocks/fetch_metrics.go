package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"
)

// FetchMetrics is a mock implementation of ports.FetchMetrics
type FetchMetrics struct {
	mock.Mock
}

func (m *FetchMetrics) RecordFetch(provider, outcome string, duration time.Duration) {
	m.Called(provider, outcome, duration)
}

func (m *FetchMetrics) RecordStaleResult() {
	m.Called()
}

func (m *FetchMetrics) WidgetMounted() {
	m.Called()
}

func (m *FetchMetrics) WidgetUnmounted() {
	m.Called()
}

// NewFetchMetrics creates a FetchMetrics mock and asserts its expectations on cleanup.
func NewFetchMetrics(t interface {
	mock.TestingT
	Cleanup(func())
}) *FetchMetrics {
	m := &FetchMetrics{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// NewPermissiveFetchMetrics creates a FetchMetrics mock that accepts any call.
func NewPermissiveFetchMetrics(t interface {
	mock.TestingT
	Cleanup(func())
}) *FetchMetrics {
	m := NewFetchMetrics(t)
	m.On("RecordFetch", mock.Anything, mock.Anything, mock.Anything).Maybe()
	m.On("RecordStaleResult").Maybe()
	m.On("WidgetMounted").Maybe()
	m.On("WidgetUnmounted").Maybe()
	return m
}
