package file

import (
	"time"

	"github.com/cerval-labs/cerval-cli/internal/adapters/driven/knowledge/resilient"
	"github.com/cerval-labs/cerval-cli/internal/adapters/driven/knowledge/rest"
	"github.com/cerval-labs/cerval-cli/internal/core/domain"
	"github.com/cerval-labs/cerval-cli/internal/core/services"
)

// Knowledge-base backend identifiers.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendREST   = "rest"
)

// Config is the cerval configuration.
type Config struct {
	Validation ValidationConfig `toml:"validation"`
	Knowledge  KnowledgeConfig  `toml:"knowledge"`
	Watch      WatchConfig      `toml:"watch"`
}

// ValidationConfig tunes the validation engine.
type ValidationConfig struct {
	// Framework is the default regulatory framework.
	Framework string `toml:"framework" validate:"required"`

	// MinSectionContent is the minimum content length before a present
	// section counts as substantive.
	MinSectionContent int `toml:"min_section_content" validate:"min=1"`

	// ChecklistPassRatio is the fraction of an item's key terms the
	// document must cover.
	ChecklistPassRatio float64 `toml:"checklist_pass_ratio" validate:"gt=0,lte=1"`

	// SourceTolerance is the relative difference allowed between a
	// reported value and its source before it counts as an error.
	SourceTolerance float64 `toml:"source_tolerance" validate:"gte=0,lt=1"`

	// CitationWorkers bounds concurrent knowledge-base lookups.
	CitationWorkers int `toml:"citation_workers" validate:"min=1,max=64"`
}

// KnowledgeConfig selects and tunes the knowledge-base backend.
type KnowledgeConfig struct {
	// Backend is one of memory, sqlite or rest.
	Backend string `toml:"backend" validate:"oneof=memory sqlite rest"`

	// DataDir is the sqlite backend's data directory. Empty means
	// ~/.cerval/data.
	DataDir string `toml:"data_dir"`

	// Seed loads the built-in starter library into the memory backend.
	Seed bool `toml:"seed"`

	// LookupTimeoutMS bounds each lookup in milliseconds.
	LookupTimeoutMS int `toml:"lookup_timeout_ms" validate:"min=1"`

	// MaxAttempts is the attempt budget per lookup.
	MaxAttempts int `toml:"max_attempts" validate:"min=1,max=10"`

	// Service configures the rest backend.
	Service ServiceConfig `toml:"service"`
}

// ServiceConfig holds the remote knowledge service connection.
type ServiceConfig struct {
	// BaseURL is the service root.
	BaseURL string `toml:"base_url" validate:"omitempty,url"`

	// Token is a static bearer token.
	Token string `toml:"token"`

	// ClientID, ClientSecret and TokenURL configure the OAuth2 client
	// credentials grant.
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	TokenURL     string `toml:"token_url" validate:"omitempty,url"`

	// RequestsPerSecond caps the outbound request rate.
	RequestsPerSecond float64 `toml:"requests_per_second" validate:"min=0"`
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	// DebounceMS is the quiet window after a file change before
	// re-validation, in milliseconds.
	DebounceMS int `toml:"debounce_ms" validate:"min=1"`
}

// Default returns the configuration used when no file exists. The
// engine defaults are the single source of truth for the tunables.
func Default() Config {
	return Config{
		Validation: ValidationConfig{
			Framework:          domain.FrameworkEUMDR.String(),
			MinSectionContent:  services.DefaultMinSectionContent,
			ChecklistPassRatio: services.DefaultChecklistPassRatio,
			SourceTolerance:    services.DefaultSourceTolerance,
			CitationWorkers:    services.DefaultCitationWorkers,
		},
		Knowledge: KnowledgeConfig{
			Backend:         BackendMemory,
			Seed:            true,
			LookupTimeoutMS: int(resilient.DefaultLookupTimeout / time.Millisecond),
			MaxAttempts:     resilient.DefaultMaxAttempts,
			Service: ServiceConfig{
				RequestsPerSecond: rest.DefaultRequestsPerSecond,
			},
		},
		Watch: WatchConfig{
			DebounceMS: 500,
		},
	}
}

// LookupTimeout returns the per-lookup budget as a duration.
func (c KnowledgeConfig) LookupTimeout() time.Duration {
	return time.Duration(c.LookupTimeoutMS) * time.Millisecond
}

// Debounce returns the watch quiet window as a duration.
func (c WatchConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}
