// Package cli wires the cobra command tree. Commands receive their
// dependencies through a Container built in main; nothing in this package
// reaches for package-level state.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tessera-labs/tessera/internal/example"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// Container holds the dependencies CLI commands dispatch against.
type Container struct {
	Registry *example.Registry
}

// NewRootCommand represents the base command when called without any subcommands
func NewRootCommand(container *Container) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tessera",
		Short: "Tessera - procedural tile scenes for the terminal",
		Long: `Tessera runs curated procedural-generation demo scenes in the terminal.

Each example assembles a small scene engine with a generation plugin and a
mouse-picking plugin, then enters an interactive run loop: arrow keys pan
the camera, space steps a paused generation, the mouse inspects tiles and
q quits.`,
		Version: Version,
		// The process contract is one diagnostic on stderr and a non-zero
		// exit; Execute prints it, so cobra must not print a second copy.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	rootCmd.AddCommand(NewRunCommand(container))
	rootCmd.AddCommand(NewListCommand(container))
	rootCmd.AddCommand(NewFeaturesCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Interrupts cancel the command context so headless runs can
// stop cleanly; the interactive loop handles its own quit keys.
func Execute(container *Container) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCommand(container)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
