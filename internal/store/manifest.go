package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteManifests regenerates every index.json in the tree: the root one
// lists systems, each system one lists versions newest first, each
// version one lists {id, name} army summaries. Static file hosts serve
// these directly; the store itself always reads the tree.
func (s *Store) WriteManifests() error {
	systems, err := s.Systems()
	if err != nil {
		return err
	}
	if err := writeJSONFile(filepath.Join(s.root, "index.json"), systems); err != nil {
		return err
	}

	for _, system := range systems {
		versions, err := s.Versions(system)
		if err != nil {
			return err
		}
		if err := writeJSONFile(filepath.Join(s.root, system, "index.json"), versions); err != nil {
			return err
		}
		for _, version := range versions {
			armies, err := s.Armies(system, version)
			if err != nil {
				return err
			}
			if err := writeJSONFile(filepath.Join(s.root, system, version, "index.json"), armies); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	// write atomically
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return os.Rename(tmp, path)
}
