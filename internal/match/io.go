package match

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads and validates a MatchSet from a JSON file.
func Load(path string) (*MatchSet, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: reading a user-provided path is expected
	if err != nil {
		return nil, fmt.Errorf("reading match set: %w", err)
	}
	var set MatchSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parsing match set: %w", err)
	}
	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("validating match set: %w", err)
	}
	return &set, nil
}

// Save writes a MatchSet to a JSON file.
func Save(path string, set *MatchSet) error {
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding match set: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing match set: %w", err)
	}
	return nil
}
