// Package knowledge defines the reference library interchange format
// shared by the knowledge-base backends.
//
// A reference library is a curated set of clinical sources: for each
// citation key the library records bibliographic fields, the finding the
// source actually reports, and the numeric values it published. Import
// files are JSON arrays of Reference entries; the same entries seed the
// in-memory backend and populate the SQLite one.
//
// The backends live in subpackages:
//
//   - memory: seedable in-memory library for tests and development
//   - sqlite: persistent local library with embedded migrations
//   - rest: client for an organisation-hosted knowledge service
//   - resilient: timeout and retry decorator around any backend
package knowledge
