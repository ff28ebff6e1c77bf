package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"rsvpd/internal/services"
)

// Manager owns every job record and serializes all access per job id. Two
// operations on the same id never interleave; operations on distinct ids run
// independently.
type Manager struct {
	store Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewManager wraps a store with per-job locking.
func NewManager(store Store) *Manager {
	return &Manager{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

// lockFor returns the mutex guarding one job id, creating it on first use.
// Entries are never removed; ids are 8 hex characters and the map stays
// small for any realistic retention window.
func (m *Manager) lockFor(id string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[id] = lock
	}
	return lock
}

// Create inserts a new PENDING job with a fresh id.
func (m *Manager) Create(ctx context.Context, filename, uploadPath string, params VideoParams) (*Job, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	// Retry on the off chance an 8-character id collides with a live job.
	for attempt := 0; attempt < 5; attempt++ {
		id := NewJobID()
		if _, err := m.store.Get(ctx, id); err == nil {
			continue
		} else if !errors.Is(err, services.ErrNotFound) {
			return nil, err
		}

		job := &Job{
			ID:          id,
			Status:      StatusPending,
			Filename:    filename,
			UploadPath:  uploadPath,
			Params:      params,
			CreatedAt:   time.Now().UTC(),
			CurrentStep: "Queued",
		}
		lock := m.lockFor(id)
		lock.Lock()
		err := m.store.Put(ctx, job)
		lock.Unlock()
		if err != nil {
			return nil, err
		}
		return job.Clone(), nil
	}
	return nil, services.Wrap(services.ErrStorage, "jobs", "create", "exhausted job id attempts", nil)
}

// Get returns a copy of the job record.
func (m *Manager) Get(ctx context.Context, id string) (*Job, error) {
	lock := m.lockFor(id)
	lock.Lock()
	defer lock.Unlock()
	return m.store.Get(ctx, id)
}

// List returns jobs newest first along with the total count.
func (m *Manager) List(ctx context.Context, limit, offset int) ([]*Job, int, error) {
	return m.store.List(ctx, limit, offset)
}

// Update applies fn to the current record under the job's lock and persists
// the result. fn sees and mutates a private copy.
func (m *Manager) Update(ctx context.Context, id string, fn func(*Job)) (*Job, error) {
	lock := m.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	job, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	fn(job)
	if err := m.store.Put(ctx, job); err != nil {
		return nil, err
	}
	return job.Clone(), nil
}

// ClaimProcessing moves a job from PENDING to PROCESSING, stamping
// started_at. Claiming a job in any other state returns ErrConflict and
// leaves the record untouched, so a double-spawned worker fails loudly.
func (m *Manager) ClaimProcessing(ctx context.Context, id string) (*Job, error) {
	lock := m.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	job, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status != StatusPending {
		return nil, services.Wrap(services.ErrConflict, "jobs", "claim",
			fmt.Sprintf("job %s is %s, not %s", id, job.Status, StatusPending), nil)
	}
	now := time.Now().UTC()
	job.Status = StatusProcessing
	job.StartedAt = &now
	if err := m.store.Put(ctx, job); err != nil {
		return nil, err
	}
	return job.Clone(), nil
}

// Delete removes the record, reporting whether it existed. Artifact cleanup
// is the caller's responsibility.
func (m *Manager) Delete(ctx context.Context, id string) (bool, error) {
	lock := m.lockFor(id)
	lock.Lock()
	defer lock.Unlock()
	return m.store.Delete(ctx, id)
}
