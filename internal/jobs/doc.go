// Package jobs defines the persisted job record, its lifecycle states, and
// the Manager that serializes every mutation per job id. Persistence is an
// explicit Store interface with SQLite and in-memory backends.
package jobs
