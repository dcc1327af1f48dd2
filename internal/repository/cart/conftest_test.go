package cart

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte) error

	lastSetKey   string
	lastSetValue []byte
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, nil
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte) error {
	m.lastSetKey = key
	m.lastSetValue = append([]byte(nil), value...)
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, "storefront:cart", zap.NewNop())
	return repo, ms
}
