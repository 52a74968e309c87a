// Package postgres provides the PostgreSQL implementation of store.RecordStore
// together with the embedded goose migrations that create its schema.
package postgres
