// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - RegistryProvider: Resolves the rule registry for a regulatory framework
//   - ClaimExtractor: Finds assertions in section text
//   - IntendedUseExtractor: Derives the device's declared purpose
//   - NumericExtractor: Finds numeric clinical statements
//   - CitationExtractor: Finds citations across the document
//   - SourceDataLookup: Resolves authoritative values from cited sources
//   - CitationKnowledgeBase: Verifies citations against the reference library
//
// The extractor interfaces default to the pattern-based implementations in
// internal/extractors; they exist so grammar or NER backed extraction can
// be substituted without touching the checkers.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
