// Package abi renders the compiler's resolved function signatures into
// the external JSON ABI description spec.md §6 names as an output
// format ("abi", "method_identifiers", part of "combined_json").
//
// This is deliberately outside the core (spec.md §1 lists "ABI JSON
// emission formatting" among the external collaborators the core only
// describes an interface to) but it leans entirely on types already
// computed by the core: pkg/types.FuncSig carries Visibility/Mutability/
// MethodID, and (*types.Type).ABI() already projects each argument and
// return type to its canonical selector name and dynamic/static shape,
// so this package is pure formatting with no type-system logic of its
// own.
package abi

import (
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/vylang/vylang/pkg/types"
)

// Entry is one function's JSON ABI record. StateMutability follows
// spec.md §6 ("pure, view, nonpayable, payable"); Constant and Payable
// are the pre-Solidity-0.5-style legacy booleans some tooling still
// reads, derived mechanically from StateMutability.
type Entry struct {
	Type            string      `json:"type"`
	Name            string      `json:"name"`
	Inputs          []Parameter `json:"inputs"`
	Outputs         []Parameter `json:"outputs,omitempty"`
	StateMutability string      `json:"stateMutability"`
	Constant        bool        `json:"constant"`
	Payable         bool        `json:"payable"`
}

// Parameter is one argument or return value. Components is populated
// only for struct/tuple-shaped parameters ("tuple" / "tuple[]").
type Parameter struct {
	Name       string      `json:"name"`
	Type       string      `json:"type"`
	Components []Parameter `json:"components,omitempty"`
}

// Build renders one Entry per external function in sigs. Internal
// functions never appear in the ABI (spec.md §3/§6: only externally
// callable selectors are addressable from outside the contract).
func Build(sigs []*types.FuncSig) []Entry {
	out := make([]Entry, 0, len(sigs))
	for _, sig := range sigs {
		if sig.Visibility != types.VisExternal {
			continue
		}
		out = append(out, entryFor(sig))
	}
	return out
}

func entryFor(sig *types.FuncSig) Entry {
	e := Entry{
		Type:            "function",
		Name:            sig.Name,
		StateMutability: sig.Mutability.String(),
	}
	for _, f := range sig.Args {
		e.Inputs = append(e.Inputs, parameterFor(f.Name, f.Type))
	}
	if sig.Return != nil {
		e.Outputs = append(e.Outputs, parameterFor("", sig.Return))
	}
	e.Constant = sig.Mutability == types.MutPure || sig.Mutability == types.MutView
	e.Payable = sig.Mutability == types.MutPayable
	return e
}

func parameterFor(name string, t *types.Type) Parameter {
	a := t.ABI()
	p := Parameter{Name: name, Type: a.SelectorName}
	if t.Kind == types.KindStruct {
		p.Type = tupleTypeString(t)
		for _, f := range t.Fields {
			p.Components = append(p.Components, parameterFor(f.Name, f.Type))
		}
	}
	return p
}

// tupleTypeString renders a struct's JSON ABI "type" field: "tuple",
// since the field-level shape lives in Components rather than in a
// flattened selector string the way (*types.Type).ABI() encodes it for
// the canonical 4-byte-selector signature.
func tupleTypeString(t *types.Type) string {
	_ = t
	return "tuple"
}

// MethodIdentifiers renders spec.md §6's "method_identifiers" format: a
// map from canonical signature to hex selector, sorted by signature for
// deterministic output.
func MethodIdentifiers(sigs []*types.FuncSig) map[string]string {
	out := map[string]string{}
	for _, sig := range sigs {
		if sig.Visibility != types.VisExternal {
			continue
		}
		out[CanonicalSignature(sig)] = hex.EncodeToString(sig.MethodID[:])
	}
	return out
}

// CanonicalSignature reproduces the signature string that fed
// types.MethodID during semantic analysis (pkg/semantics/module.go's
// canonicalSignature), so the two always agree on what a given
// function's 4-byte selector was computed over.
func CanonicalSignature(sig *types.FuncSig) string {
	s := sig.Name + "("
	for i, f := range sig.Args {
		if i > 0 {
			s += ","
		}
		s += f.Type.ABI().SelectorName
	}
	return s + ")"
}

// SortedSignatures returns sigs ordered by MethodID ascending, the order
// spec.md §6 expects "method_identifiers" and dispatcher-table debug
// dumps to agree in (matching pkg/codegen/dispatch.go's own sort, though
// that one sorts by name — this package re-sorts by selector since the
// method-identifiers map itself is unordered JSON and callers that want
// a stable list want it keyed the way the dispatcher compares it).
func SortedSignatures(sigs []*types.FuncSig) []*types.FuncSig {
	out := make([]*types.FuncSig, len(sigs))
	copy(out, sigs)
	sort.Slice(out, func(i, j int) bool {
		return fmt.Sprintf("%x", out[i].MethodID) < fmt.Sprintf("%x", out[j].MethodID)
	})
	return out
}
