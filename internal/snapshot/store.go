package snapshot

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"crm-insights/internal/analytics"

	"github.com/rs/zerolog/log"
)

// Document is a decoded snapshot together with its content fingerprint.
type Document struct {
	File     File
	Snapshot analytics.Snapshot
	Hash     string
}

// Decode validates and maps a raw snapshot document.
func Decode(data []byte) (*Document, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidSnapshot)
	}
	if err := Validate(data); err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	s, err := ToSnapshot(f)
	if err != nil {
		return nil, err
	}

	hash, err := Fingerprint(f)
	if err != nil {
		return nil, err
	}
	return &Document{File: f, Snapshot: s, Hash: hash}, nil
}

// LoadFile reads and decodes a snapshot document from disk.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	doc, err := Decode(data)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("path", path).
		Str("hash", doc.Hash[:12]).
		Int("customers", len(doc.File.Customers)).
		Int("orders", len(doc.File.Sales)).
		Msg("Snapshot loaded")
	return doc, nil
}

// Fingerprint hashes the canonical encoding of a snapshot file. Formatting and
// key order of the source document do not affect the result.
func Fingerprint(f File) (string, error) {
	canonical, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Save writes a snapshot file atomically.
func Save(path string, f File) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write temp snapshot file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename snapshot file: %w", err)
	}

	log.Info().Str("path", path).Msg("Snapshot saved")
	return nil
}
