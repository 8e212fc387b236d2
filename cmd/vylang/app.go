package main

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli"

	"github.com/vylang/vylang/pkg/config"
)

// Version is set at link time (-ldflags "-X main.Version=...), matching
// pkg/config.Version's role in the teacher's own build.
var Version = "dev"

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "vylang\nVersion: %s\nGoVersion: %s\n", Version, runtime.Version())
}

// newApp assembles the CLI surface spec.md §6 names: positional source
// paths, `-f` output formats, `--evm-version`, `--no-optimize`,
// `--storage-layout-file`.
func newApp() *cli.App {
	cli.VersionPrinter = versionPrinter
	app := cli.NewApp()
	app.Name = "vylang"
	app.Version = Version
	app.Usage = "compile contract source to EVM bytecode, ABI, and assembly"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "f",
			Usage: "comma-separated output formats: " + formatList(),
			Value: "bytecode",
		},
		cli.StringFlag{
			Name:  "evm-version",
			Usage: "target EVM dialect (default: " + config.EVMLatest.String() + ")",
		},
		cli.BoolFlag{
			Name:  "no-optimize",
			Usage: "disable the IR optimizer pass",
		},
		cli.StringFlag{
			Name:  "storage-layout-file",
			Usage: "YAML file pinning storage slot assignments across compilations",
		},
		cli.BoolFlag{
			Name:  "dump-ast",
			Usage: "print a field-by-field dump of each loaded module instead of compiling",
		},
		cli.BoolFlag{
			Name:  "dump-ir",
			Usage: "print a field-by-field dump of each module's runtime IR alongside the requested formats",
		},
	}
	app.Action = runCompile
	return app
}
