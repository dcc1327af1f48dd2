package cart

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/kiosk-labs/storefront/internal/db"
	"github.com/kiosk-labs/storefront/internal/domain"
)

func testItems() []domain.CartItem {
	return []domain.CartItem{
		{ID: 1, Name: "widget", Price: 10, Category: 2, Quantity: 2},
		{ID: 5, Name: "gadget", Price: 3.5, Category: 2, Quantity: 1},
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, testItems()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if ms.lastSetKey != "storefront:cart" {
		t.Fatalf("unexpected key %q", ms.lastSetKey)
	}

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return ms.lastSetValue, nil
	}
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, testItems()) {
		t.Fatalf("round trip mismatch:\ngot:  %+v\nwant: %+v", got, testItems())
	}
}

func TestLoad_AbsentSlotYieldsEmptyCart(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, db.ErrKeyNotFound
	}

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty cart, got %+v", got)
	}
}

func TestLoad_MalformedDataTreatedAsAbsent(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte(`{"items": not json`), nil
	}

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("malformed data must not error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty cart, got %+v", got)
	}
}

func TestLoad_DropsInvariantViolations(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte(`{"items":[
			{"id":1,"name":"ok","price":10,"category":1,"quantity":2},
			{"id":1,"name":"dup","price":10,"category":1,"quantity":3},
			{"id":2,"name":"zero","price":5,"category":1,"quantity":0},
			{"id":3,"name":"neg","price":-1,"category":1,"quantity":1}
		]}`), nil
	}

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 || got[0].Quantity != 2 {
		t.Fatalf("expected only the first valid entry, got %+v", got)
	}
}

func TestLoad_StoreErrorPropagates(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, errors.New("connection reset")
	}

	if _, err := repo.Load(context.Background()); err == nil {
		t.Fatal("expected error for store failure")
	}
}

func TestBridge_SwallowsWriteFailure(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.setFn = func(_ context.Context, _ string, _ []byte) error {
		return errors.New("quota exceeded")
	}

	// Must not panic or propagate — persistence is best-effort.
	repo.Bridge()(testItems())
}

func TestBridge_WritesSnapshot(t *testing.T) {
	repo, ms := newTestRepo(t)

	repo.Bridge()(testItems())

	if ms.lastSetKey != "storefront:cart" {
		t.Fatalf("expected write to cart slot, got %q", ms.lastSetKey)
	}
	if len(ms.lastSetValue) == 0 {
		t.Fatal("expected serialized payload")
	}
}
