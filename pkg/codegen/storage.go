package codegen

import "github.com/vylang/vylang/pkg/types"

// slotSize returns how many consecutive 32-byte storage slots t occupies
// in its own right, not counting any dynamic tail (spec.md §4.E
// "storage is word-addressed with single-word load/store"): every value
// type and every mapping take one slot (a mapping's slot seeds the
// keccak256(key || slot) derivation for its elements, the way Solidity
// lays out storage mappings); a static array of N elements takes N times
// its element's slot count.
func slotSize(t *types.Type) int {
	switch t.Kind {
	case types.KindStaticArray:
		return t.Length * slotSize(t.Elem)
	case types.KindStruct:
		n := 0
		for _, f := range t.Fields {
			n += slotSize(f.Type)
		}
		return n
	default:
		return 1
	}
}

// storageLayout assigns each storage variable a base slot, sequentially
// in declaration order, mirroring the source compiler's simple
// append-only storage allocator (no packing of sub-word fields into a
// shared slot, matching spec.md's non-goal on gas-optimal packing).
type storageLayout struct {
	slots map[string]int
	next  int
}

func newStorageLayout() *storageLayout {
	return &storageLayout{slots: map[string]int{}}
}

// newPinnedStorageLayout seeds a layout with slots carried over from a prior
// compilation (spec.md §6's `--storage-layout-file`), so a variable that
// shipped before keeps its slot even if declaration order changes around it.
func newPinnedStorageLayout(pins map[string]uint64) *storageLayout {
	s := newStorageLayout()
	for name, slot := range pins {
		s.slots[name] = int(slot)
	}
	return s
}

func (s *storageLayout) allocate(name string, t *types.Type) int {
	if base, ok := s.slots[name]; ok {
		if end := base + slotSize(t); end > s.next {
			s.next = end
		}
		return base
	}
	base := s.next
	s.slots[name] = base
	s.next += slotSize(t)
	return base
}

func (s *storageLayout) slotOf(name string) (int, bool) {
	slot, ok := s.slots[name]
	return slot, ok
}
