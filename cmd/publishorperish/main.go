package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

// Globals are the flags shared by every command.
type Globals struct {
	Config string `short:"c" default:"publishorperish.hcl" help:"Path to the HCL config file"`
	Debug  bool   `help:"Enable debug logging"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"withargs" help:"Play an interactive game against bots"`
	Simulate SimulateCmd      `cmd:"" help:"Play many bot games and report statistics"`
	Saves    SavesCmd         `cmd:"" help:"List, show and delete saved games"`
	Catalog  CatalogCmd       `cmd:"" help:"Show or validate a card catalog"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("publishorperish"),
		kong.Description("Publish or Perish, the academic research board game"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
