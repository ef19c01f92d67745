// Package cli provides the cerval command line interface.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cerval-labs/cerval-cli/internal/adapters/driven/config/file"
	"github.com/cerval-labs/cerval-cli/internal/adapters/driven/knowledge/memory"
	"github.com/cerval-labs/cerval-cli/internal/adapters/driven/knowledge/resilient"
	"github.com/cerval-labs/cerval-cli/internal/adapters/driven/knowledge/rest"
	"github.com/cerval-labs/cerval-cli/internal/adapters/driven/knowledge/sqlite"
	"github.com/cerval-labs/cerval-cli/internal/core/ports/driven"
	"github.com/cerval-labs/cerval-cli/internal/core/ports/driving"
	"github.com/cerval-labs/cerval-cli/internal/core/services"
	"github.com/cerval-labs/cerval-cli/internal/extractors/pattern"
	"github.com/cerval-labs/cerval-cli/internal/frameworks"
	"github.com/cerval-labs/cerval-cli/internal/logger"
)

// version is set by Execute from the build.
var version = "dev"

// ErrIncomplete signals that validation ran but the document did not
// pass. The process exits non-zero without treating it as a crash.
var ErrIncomplete = errors.New("document failed validation")

// Persistent flags.
var (
	configDir string
	verbose   bool
)

// Services the commands run against. Wired by setup on first use;
// tests inject their own.
var (
	configStore       *file.Store
	validationService driving.ValidationService
	feedbackService   driving.FeedbackService
	registryProvider  driven.RegistryProvider
	knowledgeCloser   io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "cerval",
	Short: "Validate clinical evaluation reports",
	Long: `Cerval checks AI-drafted Clinical Evaluation Reports against a
regulatory framework: required sections, claim consistency, factual
accuracy against source data, citation validity and the regulatory
checklist. Reviewer corrections are applied back with a revision trail.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.cerval)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the CLI with the given build version.
func Execute(buildVersion string) error {
	if buildVersion != "" {
		version = buildVersion
	}
	defer closeKnowledge()
	return rootCmd.Execute()
}

// setup wires the engine from configuration. Injected services (tests,
// embedding callers) are left untouched.
func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	// version needs no services and must not touch the config dir.
	if cmd.Name() == "version" {
		return nil
	}
	if validationService != nil {
		return nil
	}

	store, err := file.NewStore(configDir)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	configStore = store

	return buildServices(store.Config())
}

// buildServices constructs the knowledge backend, checkers and engine
// from the configuration.
func buildServices(cfg file.Config) error {
	sources, kb, err := buildKnowledge(cfg.Knowledge)
	if err != nil {
		return err
	}

	guarded := resilient.New(sources, kb, resilient.Config{
		LookupTimeout: cfg.Knowledge.LookupTimeout(),
		MaxAttempts:   cfg.Knowledge.MaxAttempts,
	})

	provider, err := frameworks.NewProvider()
	if err != nil {
		return fmt.Errorf("loading framework registries: %w", err)
	}

	registryProvider = provider
	validationService = services.NewEngine(provider,
		services.NewCompletenessChecker(cfg.Validation.MinSectionContent),
		services.NewConsistencyChecker(pattern.NewClaimExtractor(), pattern.NewIntendedUseExtractor()),
		services.NewAccuracyChecker(pattern.NewNumericExtractor(), guarded, cfg.Validation.SourceTolerance),
		services.NewCitationChecker(pattern.NewCitationExtractor(), guarded, cfg.Validation.CitationWorkers),
		services.NewChecklistChecker(cfg.Validation.ChecklistPassRatio),
	)
	feedbackService = services.NewFeedbackIntegrator()
	return nil
}

// buildKnowledge opens the configured knowledge-base backend.
func buildKnowledge(cfg file.KnowledgeConfig) (driven.SourceDataLookup, driven.CitationKnowledgeBase, error) {
	switch cfg.Backend {
	case file.BackendMemory:
		if cfg.Seed {
			lib := memory.NewSeededLibrary()
			return lib, lib, nil
		}
		lib := memory.NewLibrary()
		return lib, lib, nil

	case file.BackendSQLite:
		store, err := sqlite.NewStore(cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening reference library: %w", err)
		}
		knowledgeCloser = store
		return store.SourceDataLookup(), store.CitationKnowledgeBase(), nil

	case file.BackendREST:
		client, err := rest.NewClient(rest.Config{
			BaseURL:           cfg.Service.BaseURL,
			Token:             cfg.Service.Token,
			ClientID:          cfg.Service.ClientID,
			ClientSecret:      cfg.Service.ClientSecret,
			TokenURL:          cfg.Service.TokenURL,
			RequestsPerSecond: cfg.Service.RequestsPerSecond,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connecting knowledge service: %w", err)
		}
		return client, client, nil

	default:
		return nil, nil, fmt.Errorf("unknown knowledge backend %q", cfg.Backend)
	}
}

func closeKnowledge() {
	if knowledgeCloser != nil {
		if err := knowledgeCloser.Close(); err != nil {
			logger.Warn("Closing reference library: %v", err)
		}
		knowledgeCloser = nil
	}
}
