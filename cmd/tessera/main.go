package main

import (
	"fmt"
	"os"

	"github.com/tessera-labs/tessera/internal/cli"
	"github.com/tessera-labs/tessera/internal/example"
	"github.com/tessera-labs/tessera/internal/example/canyon"
	"github.com/tessera-labs/tessera/internal/example/chessboard"
	"github.com/tessera-labs/tessera/internal/example/pillars"
	"github.com/tessera-labs/tessera/internal/example/tilelayers"
)

func main() {
	registry, err := example.NewRegistry(
		chessboard.New(),
		tilelayers.New(),
		pillars.New(),
		canyon.New(),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to assemble the example catalog: %v\n", err)
		os.Exit(1)
	}

	cli.Execute(&cli.Container{Registry: registry})
}
