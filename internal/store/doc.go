// Package store defines how application state is persisted. State is kept as
// three named JSON records (cards, user profile, folders) in a RecordStore;
// DecodeSnapshot and EncodeSnapshot convert between those records and the
// domain model.
package store
