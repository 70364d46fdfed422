package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/network-actions-api/internal/models"
)

// MemoryActionRepository keeps action records in process memory in insertion order.
// Every method serializes on a single lock and hands out copies.
type MemoryActionRepository struct {
	mu      sync.RWMutex
	actions []models.Action
	now     func() time.Time
	newID   func() string
}

// NewMemoryActionRepository constructs an empty store, optionally pre-loaded with records.
func NewMemoryActionRepository(seed ...models.Action) *MemoryActionRepository {
	r := &MemoryActionRepository{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, action := range seed {
		r.actions = append(r.actions, action.Clone())
	}
	return r
}

// Create assigns an id and timestamps and appends the record.
func (r *MemoryActionRepository) Create(ctx context.Context, fields models.ActionFields) (*models.Action, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	action := models.Action{
		ID:           r.newID(),
		ActionFields: fields.Clone(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.actions = append(r.actions, action)
	out := action.Clone()
	return &out, nil
}

// Update merges patch into the record and refreshes UpdatedAt.
func (r *MemoryActionRepository) Update(ctx context.Context, id string, patch models.ActionPatch) (*models.Action, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, ErrActionNotFound
	}
	action := r.actions[idx].Clone()
	patch.Apply(&action.ActionFields)
	action.UpdatedAt = r.now()
	r.actions[idx] = action

	out := action.Clone()
	return &out, nil
}

// Delete removes the record.
func (r *MemoryActionRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return ErrActionNotFound
	}
	r.actions = append(r.actions[:idx], r.actions[idx+1:]...)
	return nil
}

// List returns every record.
func (r *MemoryActionRepository) List(ctx context.Context) ([]models.Action, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Action, len(r.actions))
	for i, action := range r.actions {
		out[i] = action.Clone()
	}
	return out, nil
}

// FindByID returns a single record.
func (r *MemoryActionRepository) FindByID(ctx context.Context, id string) (*models.Action, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, ErrActionNotFound
	}
	out := r.actions[idx].Clone()
	return &out, nil
}

func (r *MemoryActionRepository) indexOf(id string) int {
	for i := range r.actions {
		if r.actions[i].ID == id {
			return i
		}
	}
	return -1
}
