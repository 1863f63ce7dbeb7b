package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"slices"
)

// Export serializes f as Base64-encoded JSON for transport or backup.
func Export(f *File) (string, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Import decodes a blob produced by Export and merges it into f. Keys present
// in the blob overwrite the current values; lists are replaced, not appended.
func Import(f *File, blob string) error {
	data, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return fmt.Errorf("decode config blob: %w", err)
	}

	merged := *f
	merged.Areas = slices.Clone(f.Areas)
	if err := json.Unmarshal(data, &merged); err != nil {
		return fmt.Errorf("parse config blob: %w", err)
	}
	*f = merged
	return nil
}
