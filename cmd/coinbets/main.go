package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Run     RunCmd           `cmd:"" default:"withargs" help:"Simulate fixed-fraction gamblers and export their wealth series"`
	Kelly   KellyCmd         `cmd:"" help:"Print the Kelly fraction and expected growth for a coin"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("coinbets"),
		kong.Description("Monte Carlo wealth trajectories of fixed-fraction betting on a biased coin"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
