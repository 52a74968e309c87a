// Package task runs background work on an in-process worker pool. Tasks are
// submitted to a bounded queue, picked up by workers and tracked in a
// TaskStore so callers can poll their status. Smart folder sorting is the only
// task type; a failed task is recorded and never retried.
package task
