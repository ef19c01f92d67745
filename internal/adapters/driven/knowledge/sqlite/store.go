package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/cerval-labs/cerval-cli/internal/adapters/driven/knowledge"
	"github.com/cerval-labs/cerval-cli/internal/adapters/driven/knowledge/sqlite/migrations"
	"github.com/cerval-labs/cerval-cli/internal/core/domain"
	"github.com/cerval-labs/cerval-cli/internal/core/ports/driven"
)

// Store is a SQLite-backed reference library that provides the
// knowledge port interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a reference library at the specified data directory.
// If dataDir is empty, defaults to ~/.cerval/data/reference.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".cerval", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "reference.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SourceDataLookup returns a SourceDataLookup interface backed by this store.
func (s *Store) SourceDataLookup() driven.SourceDataLookup {
	return &sourceLookup{store: s}
}

// CitationKnowledgeBase returns a CitationKnowledgeBase interface backed by this store.
func (s *Store) CitationKnowledgeBase() driven.CitationKnowledgeBase {
	return &citationBase{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_reference_library.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Import stores or replaces reference entries in a single transaction
// and returns the number imported.
func (s *Store) Import(ctx context.Context, refs []knowledge.Reference) (int, error) {
	if err := knowledge.Validate(refs); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	citationStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO citations (key, title, authors, year, summary, contradicts, confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			title = excluded.title,
			authors = excluded.authors,
			year = excluded.year,
			summary = excluded.summary,
			contradicts = excluded.contradicts,
			confidence = excluded.confidence,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing citation statement: %w", err)
	}
	defer citationStmt.Close()

	valueStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO study_parameters (citation_key, parameter, value, unit)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing parameter statement: %w", err)
	}
	defer valueStmt.Close()

	count := 0
	for _, ref := range refs {
		key := ref.NormalKey()

		contradictsJSON, err := json.Marshal(ref.Contradicts)
		if err != nil {
			return 0, fmt.Errorf("marshalling contradicted claims: %w", err)
		}

		if _, err := citationStmt.ExecContext(ctx, key, ref.Title, ref.Authors, ref.Year,
			ref.Summary, string(contradictsJSON), ref.EffectiveConfidence()); err != nil {
			return 0, fmt.Errorf("saving citation %q: %w", key, err)
		}

		// Replace the study values wholesale so removed parameters
		// don't linger across imports.
		if _, err := tx.ExecContext(ctx, "DELETE FROM study_parameters WHERE citation_key = ?", key); err != nil {
			return 0, fmt.Errorf("clearing parameters for %q: %w", key, err)
		}

		for _, value := range ref.Values {
			if _, err := valueStmt.ExecContext(ctx, key,
				knowledge.NormalizeParameter(value.Parameter), value.Value, value.Unit); err != nil {
				return 0, fmt.Errorf("saving parameter %q for %q: %w", value.Parameter, key, err)
			}
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return count, nil
}

// Count returns the number of citations in the library.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM citations").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting citations: %w", err)
	}
	return count, nil
}

// ==================== Source Data Lookup ====================

// sourceLookup implements driven.SourceDataLookup.
type sourceLookup struct {
	store *Store
}

var _ driven.SourceDataLookup = (*sourceLookup)(nil)

// LookupValue returns the value a source study reports for a parameter.
func (s *sourceLookup) LookupValue(ctx context.Context, sourceKey, parameter string) (domain.SourceValue, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT parameter, value, unit
		FROM study_parameters WHERE citation_key = ? AND parameter = ?
	`, knowledge.NormalizeKey(sourceKey), knowledge.NormalizeParameter(parameter))

	var value domain.SourceValue
	if err := row.Scan(&value.Parameter, &value.Value, &value.Unit); err != nil {
		if err == sql.ErrNoRows {
			return domain.SourceValue{}, domain.ErrNotFound
		}
		return domain.SourceValue{}, fmt.Errorf("scanning study parameter: %w", err)
	}

	return value, nil
}

// ==================== Citation Knowledge Base ====================

// citationBase implements driven.CitationKnowledgeBase.
type citationBase struct {
	store *Store
}

var _ driven.CitationKnowledgeBase = (*citationBase)(nil)

// VerifyCitation checks a citation against the library. Unknown keys
// yield a definitive negative verdict rather than an error.
func (c *citationBase) VerifyCitation(ctx context.Context, citation domain.Citation) (domain.CitationRecord, error) {
	row := c.store.db.QueryRowContext(ctx, `
		SELECT summary, contradicts, confidence
		FROM citations WHERE key = ?
	`, knowledge.NormalizeKey(citation.Key))

	var summary, contradictsJSON string
	var confidence float64
	if err := row.Scan(&summary, &contradictsJSON, &confidence); err != nil {
		if err == sql.ErrNoRows {
			return domain.CitationRecord{Exists: false, Confidence: 1}, nil
		}
		return domain.CitationRecord{}, fmt.Errorf("scanning citation: %w", err)
	}

	ref := knowledge.Reference{
		Summary:    summary,
		Confidence: confidence,
	}
	if contradictsJSON != "" && contradictsJSON != "null" {
		if err := json.Unmarshal([]byte(contradictsJSON), &ref.Contradicts); err != nil {
			return domain.CitationRecord{}, fmt.Errorf("unmarshalling contradicted claims: %w", err)
		}
	}

	return ref.Verdict(citation.Context), nil
}
