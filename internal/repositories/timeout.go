package repository

import (
	"context"
	"time"
)

// DefaultStoreTimeout bounds a single session store round trip.
const DefaultStoreTimeout = 2 * time.Second

func withStoreTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, DefaultStoreTimeout)
}
