package cli

import (
	"errors"
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cerval-labs/cerval-cli/internal/adapters/driven/config/file"
	"github.com/cerval-labs/cerval-cli/internal/adapters/driven/knowledge"
	"github.com/cerval-labs/cerval-cli/internal/adapters/driven/knowledge/sqlite"
)

var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Manage the reference knowledge base",
	Long: `Commands for the reference library that backs citation
verification and source-data checks.

The library can run from memory (development), a local sqlite database,
or an organisation-hosted knowledge service. Select the backend in
config.toml under [knowledge].`,
}

var kbImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import references into the local library",
	Long: `Imports a JSON reference file into the local sqlite library.
Existing entries with the same key are replaced.

The file is a JSON array of entries:
  [
    {"key": "smith-2019", "title": "...", "authors": "Smith et al.",
     "year": 2019, "summary": "...",
     "values": [{"parameter": "heart rate", "value": 72, "unit": "bpm"}]}
  ]`,
	Args: cobra.ExactArgs(1),
	RunE: runKBImport,
}

var kbSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the built-in starter references",
	RunE:  runKBSeed,
}

var kbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the knowledge-base backend and size",
	RunE:  runKBStatus,
}

var (
	kbLoginURL      string
	kbLoginClientID string
	kbLoginTokenURL string
)

var kbLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store credentials for the knowledge service",
	Long: `Stores credentials for the organisation-hosted knowledge service
and switches the backend to it.

With --client-id the secret is used for the OAuth2 client credentials
grant; otherwise it is stored as a static bearer token. The secret is
read from the terminal and never echoed.`,
	RunE: runKBLogin,
}

func init() {
	kbLoginCmd.Flags().StringVar(&kbLoginURL, "url", "", "knowledge service base URL (required)")
	kbLoginCmd.Flags().StringVar(&kbLoginClientID, "client-id", "", "OAuth2 client ID")
	kbLoginCmd.Flags().StringVar(&kbLoginTokenURL, "token-url", "", "OAuth2 token endpoint")
	_ = kbLoginCmd.MarkFlagRequired("url")

	kbCmd.AddCommand(kbImportCmd)
	kbCmd.AddCommand(kbSeedCmd)
	kbCmd.AddCommand(kbStatusCmd)
	kbCmd.AddCommand(kbLoginCmd)
	rootCmd.AddCommand(kbCmd)
}

// openLibrary opens the local sqlite library from configuration.
func openLibrary() (*sqlite.Store, error) {
	if configStore == nil {
		return nil, errors.New("configuration not loaded")
	}
	return sqlite.NewStore(configStore.Config().Knowledge.DataDir)
}

func runKBImport(cmd *cobra.Command, args []string) error {
	refs, err := knowledge.LoadFile(args[0])
	if err != nil {
		return err
	}

	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	count, err := store.Import(cmd.Context(), refs)
	if err != nil {
		return fmt.Errorf("importing references: %w", err)
	}

	cmd.Printf("Imported %d references into %s\n", count, store.Path())
	return nil
}

func runKBSeed(cmd *cobra.Command, _ []string) error {
	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	count, err := store.Import(cmd.Context(), knowledge.Seed())
	if err != nil {
		return fmt.Errorf("importing seed references: %w", err)
	}

	cmd.Printf("Loaded %d starter references into %s\n", count, store.Path())
	return nil
}

func runKBStatus(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("configuration not loaded")
	}
	cfg := configStore.Config().Knowledge

	cmd.Printf("Backend: %s\n", cfg.Backend)
	switch cfg.Backend {
	case file.BackendMemory:
		if cfg.Seed {
			cmd.Printf("Entries: %d (built-in starter set)\n", len(knowledge.Seed()))
		} else {
			cmd.Println("Entries: 0 (unseeded)")
		}
	case file.BackendSQLite:
		store, err := openLibrary()
		if err != nil {
			return err
		}
		defer store.Close()
		count, err := store.Count(cmd.Context())
		if err != nil {
			return fmt.Errorf("counting references: %w", err)
		}
		cmd.Printf("Library: %s\n", store.Path())
		cmd.Printf("Entries: %d\n", count)
	case file.BackendREST:
		cmd.Printf("Service: %s\n", cfg.Service.BaseURL)
	}
	return nil
}

func runKBLogin(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("configuration not loaded")
	}
	if kbLoginClientID != "" && kbLoginTokenURL == "" {
		return errors.New("--token-url is required with --client-id")
	}

	secret, err := readSecret(cmd)
	if err != nil {
		return err
	}
	if secret == "" {
		return errors.New("no secret entered")
	}

	err = configStore.Update(func(cfg *file.Config) {
		cfg.Knowledge.Backend = file.BackendREST
		cfg.Knowledge.Service.BaseURL = kbLoginURL
		if kbLoginClientID != "" {
			cfg.Knowledge.Service.ClientID = kbLoginClientID
			cfg.Knowledge.Service.ClientSecret = secret
			cfg.Knowledge.Service.TokenURL = kbLoginTokenURL
			cfg.Knowledge.Service.Token = ""
		} else {
			cfg.Knowledge.Service.Token = secret
			cfg.Knowledge.Service.ClientID = ""
			cfg.Knowledge.Service.ClientSecret = ""
		}
	})
	if err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}

	cmd.Printf("Credentials stored in %s; backend set to %s\n", configStore.Path(), file.BackendREST)
	return nil
}

// readSecret reads the credential without echoing when stdin is a
// terminal, falling back to a plain line read otherwise (pipes, tests).
func readSecret(cmd *cobra.Command) (string, error) {
	fd := int(syscall.Stdin)
	if !term.IsTerminal(fd) {
		var secret string
		if _, err := fmt.Fscanln(cmd.InOrStdin(), &secret); err != nil {
			return "", fmt.Errorf("reading secret: %w", err)
		}
		return secret, nil
	}

	cmd.Print("Secret: ")
	raw, err := term.ReadPassword(fd)
	cmd.Println()
	if err != nil {
		return "", fmt.Errorf("reading secret: %w", err)
	}
	return string(raw), nil
}
