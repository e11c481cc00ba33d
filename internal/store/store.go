// Package store serves army documents from a scraped file tree laid out
// as <root>/<system>/<version>/<Army Name (uid)>.json, with index.json
// manifests at every level for static hosting.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"armycompare/internal/army"
)

// ErrNotFound reports a system, version, or army that does not exist in
// the data tree.
var ErrNotFound = errors.New("not found")

// AmbiguousArmyError reports a fuzzy name lookup that matched more than
// one army. The caller decides; the store never picks one silently.
type AmbiguousArmyError struct {
	Query      string
	Candidates []army.Summary
}

func (e *AmbiguousArmyError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		names[i] = c.Name
	}
	return fmt.Sprintf("ambiguous army %q: matches %s", e.Query, strings.Join(names, ", "))
}

type Store struct {
	root string
}

func New(root string) *Store {
	return &Store{root: root}
}

// Systems lists the game system slugs present in the tree, sorted.
func (s *Store) Systems() ([]string, error) {
	dirs, err := readDirNames(s.root)
	if err != nil {
		return nil, fmt.Errorf("list systems: %w", err)
	}
	sort.Strings(dirs)
	return dirs, nil
}

// Versions lists the versions available for a system, newest first.
func (s *Store) Versions(system string) ([]string, error) {
	dir, err := s.systemDir(system)
	if err != nil {
		return nil, err
	}
	versions, err := readDirNames(dir)
	if err != nil {
		return nil, fmt.Errorf("list versions for %s: %w", system, err)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(versions)))
	return versions, nil
}

// Armies lists the army files of one system/version, sorted by name.
// The id is the filename; the display name is the filename without the
// .json suffix, matching the manifest layout.
func (s *Store) Armies(system, version string) ([]army.Summary, error) {
	dir, err := s.versionDir(system, version)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list armies for %s/%s: %w", system, version, err)
	}
	out := []army.Summary{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || name == "index.json" {
			continue
		}
		out = append(out, army.Summary{ID: name, Name: strings.TrimSuffix(name, ".json")})
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// Army loads one army document by file id (with or without .json).
func (s *Store) Army(system, version, id string) (*army.Document, error) {
	dir, err := s.versionDir(system, version)
	if err != nil {
		return nil, err
	}
	id = filepath.Base(id)
	if !strings.HasSuffix(id, ".json") {
		id += ".json"
	}
	data, err := os.ReadFile(filepath.Join(dir, id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read army %s: %w", id, err)
	}
	var doc army.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse army %s: %w", id, err)
	}
	return &doc, nil
}

// FindArmy resolves an army by exact file id first, then by fuzzy name
// prefix with any parenthesized suffix stripped ("Beastmen (v3.2)" and
// "Beastmen (v3.4)" share the prefix "Beastmen"). Exactly one fuzzy
// candidate resolves; several return AmbiguousArmyError.
func (s *Store) FindArmy(system, version, idOrName string) (*army.Document, error) {
	doc, err := s.Army(system, version, idOrName)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	prefix := NamePrefix(idOrName)
	if prefix == "" {
		return nil, ErrNotFound
	}
	summaries, err := s.Armies(system, version)
	if err != nil {
		return nil, err
	}
	var candidates []army.Summary
	for _, sum := range summaries {
		if strings.HasPrefix(sum.Name, prefix) {
			candidates = append(candidates, sum)
		}
	}
	switch len(candidates) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return s.Army(system, version, candidates[0].ID)
	default:
		return nil, &AmbiguousArmyError{Query: idOrName, Candidates: candidates}
	}
}

// NamePrefix strips the trailing .json and any parenthesized suffix,
// leaving the part of an army name that survives re-exports.
func NamePrefix(name string) string {
	name = strings.TrimSuffix(name, ".json")
	if i := strings.Index(name, "("); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}

func (s *Store) systemDir(system string) (string, error) {
	dir := filepath.Join(s.root, filepath.Base(system))
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return "", ErrNotFound
	}
	return dir, nil
}

func (s *Store) versionDir(system, version string) (string, error) {
	sysDir, err := s.systemDir(system)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(sysDir, filepath.Base(version))
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return "", ErrNotFound
	}
	return dir, nil
}

func readDirNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
