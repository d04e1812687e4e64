package mocks

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/ports"
)

// MockEventPublisher implements ports.EventPublisher without a broker.
type MockEventPublisher struct {
	mu sync.RWMutex

	PublishedEvents  []ports.ClinicEvent
	PublishError     error
	PublishCallCount int
}

var _ ports.EventPublisher = (*MockEventPublisher)(nil)

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{
		PublishedEvents: make([]ports.ClinicEvent, 0),
	}
}

func (m *MockEventPublisher) Publish(ctx context.Context, evt ports.ClinicEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCallCount++
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, evt)
	return nil
}

// GetPublishedEvents returns a copy of everything published so far.
func (m *MockEventPublisher) GetPublishedEvents() []ports.ClinicEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]ports.ClinicEvent, len(m.PublishedEvents))
	copy(events, m.PublishedEvents)
	return events
}

// MockEventRecorder implements ports.EventRecorder by keeping events in memory.
type MockEventRecorder struct {
	mu sync.RWMutex

	Events      []ports.ClinicEvent
	RecordError error
}

var _ ports.EventRecorder = (*MockEventRecorder)(nil)

func NewMockEventRecorder() *MockEventRecorder {
	return &MockEventRecorder{}
}

func (m *MockEventRecorder) Record(ctx context.Context, eventType string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.RecordError != nil {
		return m.RecordError
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	m.Events = append(m.Events, ports.ClinicEvent{
		Type:       eventType,
		Payload:    body,
		OccurredAt: time.Now(),
	})
	return nil
}

// Types returns the recorded event types in order.
func (m *MockEventRecorder) Types() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	types := make([]string, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.Type
	}
	return types
}
