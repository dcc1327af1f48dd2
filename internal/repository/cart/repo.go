// Package cart is the persistence bridge: it mirrors the cart ledger
// into a single durable key-value slot and seeds the ledger from that
// slot at session start.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kiosk-labs/storefront/internal/db"
	"github.com/kiosk-labs/storefront/internal/domain"
)

// store is the consumer interface for the cart slot (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Repo persists the ledger under a fixed key.
type Repo struct {
	store  store
	key    string
	logger *zap.Logger
}

// New creates a cart repository writing to the given key.
func New(s store, key string, logger *zap.Logger) *Repo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repo{store: s, key: key, logger: logger}
}

// Load reads the persisted ledger. An absent slot and malformed data
// both yield an empty ledger — corrupt persisted state must never take
// the session down, it is treated as absent.
func (r *Repo) Load(ctx context.Context) ([]domain.CartItem, error) {
	raw, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", r.key, err)
	}

	var dto cartStateDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		r.logger.Warn("discarding malformed persisted cart",
			zap.String("key", r.key),
			zap.Error(err),
		)
		return nil, nil
	}
	return fromDTO(dto), nil
}

// Save serializes the ledger snapshot into the slot.
func (r *Repo) Save(ctx context.Context, items []domain.CartItem) error {
	data, err := json.Marshal(toDTO(items))
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := r.store.Set(ctx, r.key, data); err != nil {
		return fmt.Errorf("set %s: %w", r.key, err)
	}
	return nil
}

// Bridge returns a ledger listener that writes every snapshot through
// Save. Write failures are logged and swallowed — persistence is
// best-effort and must never fail the triggering cart mutation.
func (r *Repo) Bridge() func(items []domain.CartItem) {
	return func(items []domain.CartItem) {
		if err := r.Save(context.Background(), items); err != nil {
			r.logger.Warn("cart persistence write failed",
				zap.String("key", r.key),
				zap.Error(err),
			)
		}
	}
}
