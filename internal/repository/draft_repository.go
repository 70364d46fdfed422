package repository

import (
	"context"
	"sync"
	"time"

	"github.com/noah-isme/network-actions-api/internal/models"
	appErrors "github.com/noah-isme/network-actions-api/pkg/errors"
)

const draftKeyPrefix = "wizard:draft:"

// DefaultDraftTTL bounds how long an idle wizard session is kept.
const DefaultDraftTTL = 2 * time.Hour

type draftEntry struct {
	state     models.WizardState
	expiresAt time.Time
}

// MemoryDraftRepository keeps wizard sessions in process memory with an idle TTL.
type MemoryDraftRepository struct {
	mu      sync.RWMutex
	entries map[string]draftEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryDraftRepository constructs an in-memory draft store.
func NewMemoryDraftRepository(ttl time.Duration) *MemoryDraftRepository {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &MemoryDraftRepository{
		entries: make(map[string]draftEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the stored session.
func (r *MemoryDraftRepository) Get(ctx context.Context, id string) (*models.WizardState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	if r.now().After(entry.expiresAt) {
		delete(r.entries, id)
		return nil, ErrDraftNotFound
	}
	state := cloneState(entry.state)
	return &state, nil
}

// Save stores the session and restarts its TTL.
func (r *MemoryDraftRepository) Save(ctx context.Context, state models.WizardState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[state.ID] = draftEntry{state: cloneState(state), expiresAt: r.now().Add(r.ttl)}
	return nil
}

// Delete removes the session.
func (r *MemoryDraftRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		return ErrDraftNotFound
	}
	delete(r.entries, id)
	return nil
}

// Purge drops expired sessions and returns how many were removed.
func (r *MemoryDraftRepository) Purge() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, entry := range r.entries {
		if now.After(entry.expiresAt) {
			delete(r.entries, id)
			removed++
		}
	}
	return removed
}

func cloneState(state models.WizardState) models.WizardState {
	state.Draft = state.Draft.Clone()
	if state.Committed != nil {
		committed := state.Committed.Clone()
		state.Committed = &committed
	}
	return state
}

// RedisDraftRepository stores wizard sessions as JSON documents in Redis.
type RedisDraftRepository struct {
	cache *CacheRepository
	ttl   time.Duration
}

// NewRedisDraftRepository wraps a cache repository for wizard sessions.
func NewRedisDraftRepository(cache *CacheRepository, ttl time.Duration) *RedisDraftRepository {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &RedisDraftRepository{cache: cache, ttl: ttl}
}

// Get loads a session.
func (r *RedisDraftRepository) Get(ctx context.Context, id string) (*models.WizardState, error) {
	var state models.WizardState
	if err := r.cache.Get(ctx, draftKey(id), &state); err != nil {
		if appErrors.Is(err, appErrors.ErrCacheMiss) {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}
	return &state, nil
}

// Save writes a session and refreshes its expiry.
func (r *RedisDraftRepository) Save(ctx context.Context, state models.WizardState) error {
	return r.cache.Set(ctx, draftKey(state.ID), state, r.ttl)
}

// Delete removes a session.
func (r *RedisDraftRepository) Delete(ctx context.Context, id string) error {
	if err := r.cache.Delete(ctx, draftKey(id)); err != nil {
		if appErrors.Is(err, appErrors.ErrCacheMiss) {
			return ErrDraftNotFound
		}
		return err
	}
	return nil
}

func draftKey(id string) string {
	return draftKeyPrefix + id
}
