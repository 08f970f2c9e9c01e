package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var mappingCmd = &cobra.Command{
	Use:   "mapping",
	Short: "Inspect field mappings",
}

var mappingShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the field mapping of a form profile",
	RunE:  runMappingShow,
}

func init() {
	mappingShowCmd.Flags().StringP("profile", "p", "fiches", "form profile")
	mappingCmd.AddCommand(mappingShowCmd)
	rootCmd.AddCommand(mappingCmd)
}

func runMappingShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil || mappingService == nil {
		return fmt.Errorf("mapping: %w", errNotConfigured)
	}
	name, _ := cmd.Flags().GetString("profile")
	profile, err := settingsService.Profile(name)
	if err != nil {
		return err
	}
	m, err := mappingService.Resolve(profile)
	if err != nil {
		return err
	}

	cmd.Printf("Mapping %s (%d fields)\n", m.Name(), m.Len())
	for _, field := range m.Fields() {
		col, _ := m.Lookup(field)
		cmd.Printf("  %-24s %s\n", field, col.Selector)
	}
	return nil
}
