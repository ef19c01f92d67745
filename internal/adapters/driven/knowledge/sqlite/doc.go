// Package sqlite provides a SQLite-backed reference library.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. A single database file
// backs both knowledge ports:
//
//   - SourceDataLookup: numeric values reported by cited studies
//   - CitationKnowledgeBase: citation existence and content verdicts
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files. Citations live in the citations table; the numeric values each
// study reports live in study_parameters, keyed by citation.
//
// # Data Location
//
// By default, the database is stored at ~/.cerval/data/reference.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
