package service_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"clubstay-backend/internal/domain"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

func eventOfType(t domain.EventType) interface{} {
	return mock.MatchedBy(func(e domain.Event) bool { return e.Type == t })
}
