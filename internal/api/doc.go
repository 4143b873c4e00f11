// Package api implements the HTTP client for a hosted directory backend:
// JSON requests with bearer authentication, a bounded exponential-backoff
// retry policy for transient failures, and typed errors that callers can
// match with errors.Is.
package api
