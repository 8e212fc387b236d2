package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// StorageLayout pins storage slot assignments across compilations of the
// same contract (spec.md §6's `--storage-layout-file`): a later build that
// adds a variable must not shift the slots of variables that already
// shipped. Slots is keyed by variable name; a name absent from a freshly
// compiled module's storage allocation is simply unused by this build.
type StorageLayout struct {
	Slots map[string]uint64 `yaml:"Slots"`
}

// LoadStorageLayout reads a storage layout pin file. A missing path is not
// an error: the flag is optional, and the zero-value StorageLayout lets
// a fresh allocator proceed as if no prior layout had been pinned.
func LoadStorageLayout(path string) (StorageLayout, error) {
	if path == "" {
		return StorageLayout{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return StorageLayout{}, fmt.Errorf("unable to read storage layout file: %w", err)
	}
	var layout StorageLayout
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&layout); err != nil {
		return StorageLayout{}, fmt.Errorf("failed to unmarshal storage layout YAML: %w", err)
	}
	return layout, nil
}

// Save writes the layout back in the same format LoadStorageLayout reads,
// letting a CLI invocation both consume and refresh a pin file in one pass.
func (l StorageLayout) Save(path string) error {
	data, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to marshal storage layout YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
