package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"

	"github.com/vylang/vylang/pkg/ast"
	"github.com/vylang/vylang/pkg/compiler"
	"github.com/vylang/vylang/pkg/config"
)

// runCompile is the CLI's single action (spec.md §6): resolve every
// positional source path to a module via LoadModule, compile each
// through a shared Driver so repeated-format requests across files still
// share nothing but the cache's bookkeeping (each file gets its own
// namespace per spec.md §4.H), and print the requested formats to
// stdout. Any unit with diagnostics reports them and contributes a
// non-zero process exit code without aborting the other units (spec.md
// §6 "exit codes 0/non-zero with formatted diagnostic").
func runCompile(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.NewExitError("no source files given", 1)
	}

	opts, err := optionsFromFlags(c)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	formats := parseFormats(c.String("f"))
	layoutPath := c.String("storage-layout-file")
	// If a layout file was given but the caller didn't ask to see it,
	// still request the "layout" stage internally so the refreshed slot
	// assignment gets written back below.
	wantsLayoutOutput := containsFormat(formats, "layout")
	buildFormats := formats
	if layoutPath != "" && !wantsLayoutOutput {
		buildFormats = append(append([]string{}, formats...), "layout")
	}

	units := make(map[string]*ast.Module, c.NArg())
	for _, path := range c.Args() {
		mod, err := LoadModule(path)
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		units[path] = mod
		if c.Bool("dump-ast") {
			fmt.Fprintf(c.App.Writer, "===== %s : ast =====\n%s\n", path, compiler.DumpAST(mod))
		}
	}
	if c.Bool("dump-ast") {
		return nil
	}

	d := compiler.New(len(units))
	artifacts, err := d.CompileCodes(units, buildFormats, opts)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	failed := false
	for _, path := range c.Args() {
		art := artifacts[path]
		if len(art.Diagnostics) > 0 {
			failed = true
			for _, diag := range art.Diagnostics {
				fmt.Fprintf(c.App.ErrWriter, "%s\n", diag.Error())
			}
			continue
		}
		printArtifact(c.App.Writer, path, art, formats)
		if c.Bool("dump-ir") {
			fmt.Fprintf(c.App.Writer, "===== %s : ir dump =====\n%s\n", path, compiler.DumpIR(d.IR(path)))
		}
		if layoutPath != "" {
			if err := art.StorageLayout.Save(layoutPath); err != nil {
				return cli.NewExitError(err.Error(), 1)
			}
		}
	}
	if failed {
		return cli.NewExitError("compilation failed", 1)
	}
	return nil
}

func containsFormat(formats []string, want string) bool {
	for _, f := range formats {
		if f == want {
			return true
		}
	}
	return false
}

func optionsFromFlags(c *cli.Context) (compiler.Options, error) {
	opts := compiler.DefaultOptions()
	opts.Optimize = !c.Bool("no-optimize")
	if v := c.String("evm-version"); v != "" {
		ev, err := config.ParseEVMVersion(v)
		if err != nil {
			return opts, err
		}
		opts.EVMVersion = ev
	}
	if path := c.String("storage-layout-file"); path != "" {
		layout, err := config.LoadStorageLayout(path)
		if err != nil {
			return opts, err
		}
		opts.StorageLayout = layout
	}
	return opts, nil
}

// printArtifact writes one format at a time in the fixed order formats
// were requested, each preceded by a `===== <path> : <format> =====`
// header (printed even for a single format and file), the way
// `vyper -f asm,bytecode` prints a multi-format report per contract.
func printArtifact(w io.Writer, path string, art *compiler.Artifact, formats []string) {
	for _, f := range formats {
		fmt.Fprintf(w, "===== %s : %s =====\n", path, f)
		switch f {
		case "bytecode":
			fmt.Fprintf(w, "0x%x\n", art.Bytecode)
		case "bytecode_runtime":
			fmt.Fprintf(w, "0x%x\n", art.BytecodeRuntime)
		case "abi", "interface", "external_interface":
			writeJSON(w, art.ABI)
		case "method_identifiers":
			writeJSON(w, art.MethodIdentifiers)
		case "asm", "opcodes", "opcodes_runtime":
			fmt.Fprintln(w, art.Asm)
		case "ir", "ir_json":
			fmt.Fprintln(w, art.IR)
		case "opt_ir":
			fmt.Fprintln(w, art.OptIR)
		case "source_map":
			writeJSON(w, map[string]any{
				"pc_pos_map":    art.PCPosMap,
				"pc_breakpoints": art.PCBreakpoints,
				"error_map":     art.ErrorMap,
			})
		case "combined_json":
			writeJSON(w, map[string]any{
				"bytecode":           fmt.Sprintf("0x%x", art.Bytecode),
				"bytecode_runtime":   fmt.Sprintf("0x%x", art.BytecodeRuntime),
				"abi":                art.ABI,
				"method_identifiers": art.MethodIdentifiers,
			})
		case "layout":
			writeJSON(w, art.StorageLayout.Slots)
		default:
			fmt.Fprintf(os.Stderr, "unknown format %q\n", f)
		}
	}
}

func writeJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
