package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/google/subcommands"

	"ascendex-bars/internal/slogx"
)

func init() {
	slog.SetDefault(slogx.NewDefault("info", "text"))
}

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&ingestCmd{}, "")
	subcommands.Register(&showCmd{out: os.Stdout}, "")
	subcommands.Register(&pruneCmd{}, "")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
