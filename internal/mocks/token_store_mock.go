package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/ports"
)

// MockTokenStore implements ports.TokenStore in memory. TTLs are ignored.
type MockTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]bool
	users  map[int64]time.Time

	RevokeError   error
	IsRevokedErr  error
	IsRevokedCall int
}

var _ ports.TokenStore = (*MockTokenStore)(nil)

func NewMockTokenStore() *MockTokenStore {
	return &MockTokenStore{
		tokens: make(map[string]bool),
		users:  make(map[int64]time.Time),
	}
}

func (m *MockTokenStore) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RevokeError != nil {
		return m.RevokeError
	}
	m.tokens[tokenID] = true
	return nil
}

func (m *MockTokenStore) RevokeUser(ctx context.Context, userID int64, at time.Time, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RevokeError != nil {
		return m.RevokeError
	}
	m.users[userID] = at
	return nil
}

func (m *MockTokenStore) IsRevoked(ctx context.Context, tokenID string, userID int64, issuedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.IsRevokedCall++
	if m.IsRevokedErr != nil {
		return false, m.IsRevokedErr
	}
	if m.tokens[tokenID] {
		return true, nil
	}
	if at, ok := m.users[userID]; ok && issuedAt.Unix() <= at.Unix() {
		return true, nil
	}
	return false, nil
}

func (m *MockTokenStore) HasToken(tokenID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tokens[tokenID]
}

func (m *MockTokenStore) HasUser(userID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.users[userID]
	return ok
}
