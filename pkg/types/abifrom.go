package types

import (
	"fmt"
	"strconv"
	"strings"
)

// FromABIFragment constructs the matching Type for an ABI type name, the
// inverse of Type.ABI().SelectorName (spec.md §4.A "Type-from-ABI"),
// used when loading an imported interface supplied as JSON ABI rather
// than source (spec.md §6 interface-code provider contract).
func FromABIFragment(name string) (*Type, error) {
	if strings.HasSuffix(name, "[]") {
		elem, err := FromABIFragment(strings.TrimSuffix(name, "[]"))
		if err != nil {
			return nil, err
		}
		return DynArray(elem, maxDynArrayBoundFromABI), nil
	}
	if idx := strings.LastIndexByte(name, '['); idx >= 0 && strings.HasSuffix(name, "]") {
		n, err := strconv.Atoi(name[idx+1 : len(name)-1])
		if err != nil {
			return nil, fmt.Errorf("invalid array suffix in ABI type %q", name)
		}
		elem, err := FromABIFragment(name[:idx])
		if err != nil {
			return nil, err
		}
		return StaticArray(elem, n), nil
	}

	switch {
	case name == "bool":
		return Bool(), nil
	case name == "address":
		return Address(), nil
	case name == "string":
		return DynString(defaultDynBoundFromABI), nil
	case name == "bytes":
		return DynBytes(defaultDynBoundFromABI), nil
	case name == "fixed168x10":
		return Decimal(), nil
	case strings.HasPrefix(name, "uint"):
		bits, err := strconv.Atoi(strings.TrimPrefix(name, "uint"))
		if err != nil {
			return nil, fmt.Errorf("unknown ABI type %q", name)
		}
		return Int(bits, false), nil
	case strings.HasPrefix(name, "int"):
		bits, err := strconv.Atoi(strings.TrimPrefix(name, "int"))
		if err != nil {
			return nil, fmt.Errorf("unknown ABI type %q", name)
		}
		return Int(bits, true), nil
	case strings.HasPrefix(name, "bytes"):
		m, err := strconv.Atoi(strings.TrimPrefix(name, "bytes"))
		if err != nil || m < 1 || m > 32 {
			return nil, fmt.Errorf("unknown ABI type %q", name)
		}
		return BytesM(m), nil
	default:
		return nil, fmt.Errorf("unknown ABI type %q", name)
	}
}

// defaultDynBoundFromABI/maxDynArrayBoundFromABI are the bounds assigned
// to a dynamic type reconstructed purely from an ABI fragment, which
// carries no length bound of its own; an imported interface's dynamic
// arguments can only be used in ways that don't depend on a tighter
// bound (e.g. passed straight through to another external call).
const (
	defaultDynBoundFromABI  = 1 << 16
	maxDynArrayBoundFromABI = 1 << 16
)
