// Package quota enforces the free-tier upload limit. Visitors get a fixed
// number of uploads; accounts are unlimited but still counted for display.
package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clipbrief/clipbrief/internal/cache"
	"github.com/clipbrief/clipbrief/internal/identity"
)

// ErrExceeded means the identity spent its free uploads.
var ErrExceeded = errors.New("upload quota exceeded")

type Status struct {
	Allowed   bool `json:"allowed"`
	Used      int  `json:"used"`
	Remaining int  `json:"remaining"`
	Unlimited bool `json:"unlimited"`
}

type Gate struct {
	store Store
	cache *cache.Cache
	limit int
}

const statusTTL = 30 * time.Second

func NewGate(store Store, c *cache.Cache, limit int) *Gate {
	return &Gate{store: store, cache: c, limit: limit}
}

func (g *Gate) Limit() int { return g.limit }

// CheckAllowed evaluates the identity's quota before transcription starts.
func (g *Gate) CheckAllowed(ctx context.Context, id identity.Identity) (Status, error) {
	key := "quota:" + id.Key()

	var st Status
	if err := g.cache.Get(ctx, key, &st); err == nil {
		return st, nil
	}

	used, err := g.store.UploadCount(ctx, id)
	if err != nil {
		return Status{}, fmt.Errorf("quota check: %w", err)
	}

	st = g.status(id, used)
	_ = g.cache.Set(ctx, key, st, statusTTL)
	return st, nil
}

// RecordUsage bumps the identity's counter after a successful transcription
// and returns the new count.
func (g *Gate) RecordUsage(ctx context.Context, id identity.Identity) (int, error) {
	count, err := g.store.IncrementUploads(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("quota record: %w", err)
	}
	_ = g.cache.Delete(ctx, "quota:"+id.Key())
	return count, nil
}

func (g *Gate) status(id identity.Identity, used int) Status {
	if id.IsAccount() {
		return Status{Allowed: true, Used: used, Unlimited: true}
	}
	remaining := g.limit - used
	if remaining < 0 {
		remaining = 0
	}
	return Status{Allowed: used < g.limit, Used: used, Remaining: remaining}
}
