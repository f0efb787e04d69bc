// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements the message and attachment
// store interfaces through a single database connection:
//
//   - MessageStore: stored chat messages, listed per conversation
//   - AttachmentStore: attachment records pointing at files on local storage
//
// Enrichment results are never written here; they are recomputed on read.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.threadlight/data/messages.db
package sqlite
