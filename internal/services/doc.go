// Package services holds the error taxonomy shared by the pipeline stages
// and clients for the external tools the pipeline shells out to.
//
// Stage code wraps failures with services.Wrap and one of the sentinel
// markers; the worker converts the first stage error into the job's terminal
// FAILED update and callers classify storage errors with errors.Is.
package services
