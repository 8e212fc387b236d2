package config

import "fmt"

// EVMVersion is the target EVM dialect the compiler assumes opcodes are
// available on, the setting spec.md §6's `--evm-version <name>` CLI flag
// selects. Modeled after pkg/config/hardfork.go's Hardfork enum
// (ordered, with a Cmp method and a name table built in init), but as a
// simple linear sequence rather than a bitmask: unlike NeoVM's hardforks
// (which gate independently togglable interop changes), EVM versions
// are a strictly ordered history where each one is a superset of the
// last, so plain ordinal comparison is all Cmp ever needs to express.
type EVMVersion int

const (
	// EVMDefault is the zero value; ParseEVMVersion returns it only
	// together with an error. The target used when no --evm-version flag
	// is given is EVMLatest.
	EVMDefault EVMVersion = iota
	EVMByzantium
	EVMConstantinople
	EVMIstanbul
	EVMBerlin
	EVMLondon
	EVMParis
	EVMShanghai
	EVMCancun

	evmLast
)

// EVMLatest is the newest EVM version this compiler knows how to target,
// the default when none is given explicitly.
const EVMLatest = evmLast - 1

var evmVersionNames = map[EVMVersion]string{
	EVMByzantium:      "byzantium",
	EVMConstantinople: "constantinople",
	EVMIstanbul:       "istanbul",
	EVMBerlin:         "berlin",
	EVMLondon:         "london",
	EVMParis:          "paris",
	EVMShanghai:       "shanghai",
	EVMCancun:         "cancun",
}

var evmVersionsByName = make(map[string]EVMVersion, len(evmVersionNames))

func init() {
	for v, name := range evmVersionNames {
		evmVersionsByName[name] = v
	}
}

func (v EVMVersion) String() string {
	if v == EVMDefault {
		return "default"
	}
	if name, ok := evmVersionNames[v]; ok {
		return name
	}
	return "unknown"
}

// Cmp returns -1/0/+1 the way Hardfork.Cmp does, so callers can gate a
// feature ("PUSH0 available from Shanghai onward") with a single
// ordering comparison instead of a per-feature boolean table.
func (v EVMVersion) Cmp(other EVMVersion) int {
	switch {
	case v == other:
		return 0
	case v < other:
		return -1
	default:
		return 1
	}
}

// ParseEVMVersion resolves a `--evm-version` flag value to an EVMVersion,
// defaulting an empty string to EVMLatest (spec.md §6's CLI default:
// compile for the newest dialect the compiler understands unless told
// otherwise).
func ParseEVMVersion(s string) (EVMVersion, error) {
	if s == "" {
		return EVMLatest, nil
	}
	if v, ok := evmVersionsByName[s]; ok {
		return v, nil
	}
	return EVMDefault, fmt.Errorf("unknown EVM version %q", s)
}
