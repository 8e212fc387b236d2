package main

import "strings"

// allFormats is the full `-f` vocabulary spec.md §6 names. "interface"
// and "external_interface" are accepted but rendered identically to
// "abi" here: this build has no Vyper-style external-interface-code
// pretty-printer, only the JSON ABI projection pkg/abi already produces.
var allFormats = []string{
	"bytecode", "bytecode_runtime", "abi", "asm", "ir", "ir_json",
	"opt_ir", "opcodes", "opcodes_runtime", "combined_json",
	"external_interface", "interface", "layout", "source_map",
	"method_identifiers",
}

func formatList() string { return strings.Join(allFormats, ", ") }

func parseFormats(flag string) []string {
	if flag == "" {
		return []string{"bytecode"}
	}
	parts := strings.Split(flag, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
