package cli

import (
	"github.com/spf13/cobra"

	"github.com/tessera-labs/tessera/internal/engine"
)

// NewRunCommand creates the run subcommand
func NewRunCommand(container *Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <example>",
		Short: "Run an example scene",
		Long: `Run one of the registered example scenes.

The example resolves its capability flags, configures the engine and enters
the interactive run loop. Use "tessera list" for the catalog.

Examples:
  # Run the chessboard with a fixed seed
  tessera run chessboard --seed 42

  # Force the canyon to generate everything up front
  tessera run canyon --view final

  # Generate without a terminal UI and save a snapshot
  tessera run tile-layers --headless --export map.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExample(cmd, container, args[0])
		},
	}

	cmd.Flags().Uint64("seed", 0, "generation seed (0 draws a random one)")
	cmd.Flags().String("view", "auto", "view mode override: final, manual or auto (keep the example default)")
	cmd.Flags().StringSlice("features", nil, "extra capability flags on top of the platform defaults")
	cmd.Flags().String("manifest", "", "HCL capability manifest file replacing the built-in one")
	cmd.Flags().Bool("headless", false, "generate without the interactive UI and print the final frame")
	cmd.Flags().String("export", "", "write a PNG snapshot of the generated grid to this path")

	return cmd
}

// runExample executes the run command
func runExample(cmd *cobra.Command, container *Container, name string) error {
	descriptor, err := container.Registry.Lookup(name)
	if err != nil {
		return err
	}
	return descriptor.Run(cmd.Context(), optionsFromFlags(cmd))
}

// optionsFromFlags converts the run flags into engine run options.
func optionsFromFlags(cmd *cobra.Command) engine.RunOptions {
	var opts engine.RunOptions
	flags := cmd.Flags()

	// seed 0 leaves the generator to draw its own
	if seed, _ := flags.GetUint64("seed"); seed != 0 {
		opts.Seed = &seed
	}
	opts.ViewOverride, _ = flags.GetString("view")
	opts.Features, _ = flags.GetStringSlice("features")
	opts.ManifestPath, _ = flags.GetString("manifest")
	opts.Headless, _ = flags.GetBool("headless")
	opts.ExportPath, _ = flags.GetString("export")

	return opts
}
