package domain

import "errors"

var (
	// ErrItemNotFound signals a missing cart item.
	ErrItemNotFound = errors.New("cart item not found")
	// ErrCatalogUnavailable signals a catalog provider failure.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrInvalidInput signals a malformed request payload.
	ErrInvalidInput = errors.New("invalid input")
)
