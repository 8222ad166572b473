// Package storage persists the record of processed events across runs.
//
// The store is a single JSON file mapping event id to a processing record
// (first seen, notified flag, notified timestamp). It is the only mutable
// shared state of the pipeline: loaded once at walk start, mutated by the
// single walking goroutine, and committed back to disk at walk end. Read
// failures degrade to an empty store rather than failing the run.
package storage
