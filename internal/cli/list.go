package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewListCommand creates the list subcommand
func NewListCommand(container *Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the registered example scenes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Registered examples (%d):\n\n", container.Registry.Len())

			w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSYNOPSIS")
			fmt.Fprintln(w, "----\t--------")
			for _, d := range container.Registry.Descriptors() {
				fmt.Fprintf(w, "%s\t%s\n", d.Name(), d.Synopsis())
			}
			if err := w.Flush(); err != nil {
				return fmt.Errorf("format catalog: %w", err)
			}

			fmt.Fprintln(out, "\nTo run one: tessera run <name>")
			return nil
		},
	}
}
