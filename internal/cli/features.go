package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tessera-labs/tessera/internal/feature"
)

// NewFeaturesCommand creates the features subcommand
func NewFeaturesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "features",
		Short: "Show the capability manifest and how flags resolve",
		Long: `Show the capability flag manifest and trace a resolution.

Without flags this prints the built-in manifest and its platform-default
resolution. Pass --features to trace extra flags through implication
closure and conflict checking, or --manifest to inspect a manifest file
instead of the built-in one.`,
		Args: cobra.NoArgs,
		RunE: runFeatures,
	}

	cmd.Flags().StringSlice("features", nil, "extra capability flags to trace through resolution")
	cmd.Flags().String("manifest", "", "HCL capability manifest file replacing the built-in one")

	return cmd
}

// runFeatures executes the features command
func runFeatures(cmd *cobra.Command, args []string) error {
	names, _ := cmd.Flags().GetStringSlice("features")
	manifestPath, _ := cmd.Flags().GetString("manifest")

	requested, err := feature.ParseFlags(names)
	if err != nil {
		return err
	}
	manifest := feature.Default()
	source := "built-in"
	if manifestPath != "" {
		if manifest, err = feature.LoadManifest(manifestPath); err != nil {
			return err
		}
		source = manifestPath
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Capability manifest (%s):\n\n", source)

	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "FLAG\tDEFAULT\tIMPLIES\tCONFLICTS")
	fmt.Fprintln(w, "----\t-------\t-------\t---------")
	for _, f := range manifest.Flags() {
		decl, _ := manifest.Declaration(f)
		def := ""
		if decl.Default {
			def = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f, def, joinFlags(decl.Implies), joinFlags(decl.Conflicts))
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("format manifest: %w", err)
	}

	fmt.Fprintf(out, "\nDefaults:  %s\n", joinFlags(manifest.Defaults()))
	if len(requested) > 0 {
		fmt.Fprintf(out, "Requested: %s\n", joinFlags(requested))
	}

	resolved, err := feature.Resolve(manifest, requested)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Resolved:  %s\n", resolved)
	return nil
}

// joinFlags formats a flag list for one table cell
func joinFlags(flags []feature.Flag) string {
	if len(flags) == 0 {
		return "-"
	}
	names := make([]string, len(flags))
	for i, f := range flags {
		names[i] = f.Value()
	}
	return strings.Join(names, ",")
}
