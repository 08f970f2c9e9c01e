package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List configured profiles",
	RunE:  runProfiles,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}

func runProfiles(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return fmt.Errorf("profiles: %w", errNotConfigured)
	}
	settings, err := settingsService.Get()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMODE\tARCHIVE\tSTATUS\tDESCRIPTION")
	for _, name := range settings.ProfileNames() {
		p := settings.Profiles[name]
		status := "ready"
		if err := p.Validate(); err != nil {
			status = "incomplete"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", name, p.Mode, p.Archive, status, p.Description)
	}
	return w.Flush()
}
