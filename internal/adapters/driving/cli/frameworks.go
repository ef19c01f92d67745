package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cerval-labs/cerval-cli/internal/core/domain"
)

var frameworksJSON bool

var frameworksCmd = &cobra.Command{
	Use:   "frameworks",
	Short: "List supported regulatory frameworks",
	RunE:  runFrameworks,
}

var frameworksShowCmd = &cobra.Command{
	Use:   "show [framework]",
	Short: "Show a framework's rule registry",
	Long: `Prints the required sections and checklist items a framework
mandates, with their regulatory references and criticality.`,
	Args: cobra.ExactArgs(1),
	RunE: runFrameworksShow,
}

func init() {
	frameworksShowCmd.Flags().BoolVar(&frameworksJSON, "json", false, "output the registry as JSON")
	frameworksCmd.AddCommand(frameworksShowCmd)
	rootCmd.AddCommand(frameworksCmd)
}

func runFrameworks(cmd *cobra.Command, _ []string) error {
	if registryProvider == nil {
		return errors.New("registry provider not configured")
	}

	supported := registryProvider.Frameworks()
	if len(supported) == 0 {
		cmd.Println("No framework registries loaded.")
		return nil
	}

	cmd.Println("Supported frameworks:")
	for _, framework := range supported {
		reg, err := registryProvider.Registry(framework)
		if err != nil {
			return err
		}
		cmd.Printf("  %-12s %s (%d required sections, %d checklist items)\n",
			framework, framework.Description(), len(reg.RequiredSections), len(reg.Checklist))
	}
	return nil
}

func runFrameworksShow(cmd *cobra.Command, args []string) error {
	if registryProvider == nil {
		return errors.New("registry provider not configured")
	}

	reg, err := registryProvider.Registry(domain.Framework(args[0]))
	if err != nil {
		if errors.Is(err, domain.ErrFrameworkNotSupported) {
			return fmt.Errorf("framework %q is not supported; run 'cerval frameworks' for the list", args[0])
		}
		return err
	}

	if frameworksJSON {
		data, err := json.MarshalIndent(reg, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding registry: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("%s - %s\n\n", reg.Framework, reg.Framework.Description())

	cmd.Printf("Required sections (%d):\n", len(reg.RequiredSections))
	for _, section := range reg.RequiredSections {
		cmd.Printf("  [%-8s] %-28s %s\n", section.Criticality, section.ID, section.RegulatoryRef)
	}
	cmd.Println()

	cmd.Printf("Checklist items (%d):\n", len(reg.Checklist))
	for _, item := range reg.Checklist {
		cmd.Printf("  [%-8s] %-28s %s\n", item.Criticality, item.ID, item.RegulatoryRef)
		cmd.Printf("             %s\n", item.Description)
	}
	return nil
}
