// Package service contains the application use cases. Every service works on
// the shared Library, which owns the in-memory copy of the learner's data and
// persists it through a store.RecordStore after each change.
//
// Services return sentinel errors from internal/domain and this package,
// wrapped in *ServiceError, so the API layer can map them with errors.Is.
package service
