// Command vylang is the CLI frontend spec.md §6 describes as an
// external collaborator the core only exposes an interface to ("parser/
// tokenizer ..., the CLI, file I/O and interface-code loading" are
// listed alongside the parser as deliberately out of scope for the core
// itself). This binary wires pkg/compiler.Driver to that interface: the
// `-f` format list, `--evm-version`, `--no-optimize`, `--storage-layout-
// file`, and `--version` flags, plus per-file diagnostic formatting.
//
// Grounded on cli/app/app.go's App-assembly shape (cli.NewApp, a custom
// VersionPrinter, one flat command tree) and cli/smartcontract's
// per-command Flags/Action wiring (pkg/compiler/smart_contract.go's
// `contract compile` subcommand), adapted from NeoVM .nef/.manifest
// output to this compiler's own `-f` format vocabulary.
package main

import (
	"fmt"
	"os"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
