package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

var configFile = flag.String("config", "", "Path to a YAML config file. Defaults and PAPERTRADER_* environment variables apply without one.")

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&serveCmd{}, "")
	commander.Register(&simulateCmd{}, "")
	commander.Register(&pricesCmd{}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
