// Package api exposes the operations surface of the service: submitting
// documents, querying and listing jobs, deleting them with their artifacts,
// fetching outputs, and pruning old terminal jobs. It owns the bounded
// worker pool and the single-instance data directory lock.
package api
