package jobs

import "context"

// Store persists job records. Implementations index by job id and order
// listings newest first. Get and Delete report missing ids with
// services.ErrNotFound and a false boolean respectively.
type Store interface {
	// Put inserts or replaces the whole record.
	Put(ctx context.Context, job *Job) error
	// Get fetches a record by id.
	Get(ctx context.Context, id string) (*Job, error)
	// List returns up to limit records ordered by creation time descending,
	// skipping offset records, along with the total count. A non-positive
	// limit returns everything after the offset.
	List(ctx context.Context, limit, offset int) ([]*Job, int, error)
	// Delete removes a record, reporting whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
	Close() error
}
