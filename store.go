package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const contentExtension = ".md"

// Store is the directory-per-language, directory-per-section content store.
// Layout: {root}/{lang}/drafts|queue|blog/*.md. Directories are created on
// demand for writes; reads of missing directories return empty listings.
type Store struct {
	root string
}

// NewStore creates a store rooted at the given content directory.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the content root directory.
func (s *Store) Root() string {
	return s.root
}

// Dir returns the directory holding a language's section.
func (s *Store) Dir(lang, section string) string {
	return filepath.Join(s.root, lang, section)
}

// HasDir reports whether a language's section directory exists.
func (s *Store) HasDir(lang, section string) bool {
	info, err := os.Stat(s.Dir(lang, section))
	return err == nil && info.IsDir()
}

// List returns all content records in a language's section. Only files with
// the content extension are included; hidden files are skipped. Records
// whose frontmatter cannot be decoded are returned with ParseErr set rather
// than dropped. Order is not defined at this layer.
func (s *Store) List(lang, section string) ([]*Record, error) {
	dir := s.Dir(lang, section)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	var records []*Record
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, contentExtension) {
			continue
		}
		rec, err := s.readFile(filepath.Join(dir, name), lang, section)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Read loads one record by filename. A missing file is ErrNotFound.
func (s *Store) Read(lang, section, filename string) (*Record, error) {
	path := filepath.Join(s.Dir(lang, section), filename)
	if !s.Exists(path) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return s.readFile(path, lang, section)
}

func (s *Store) readFile(path, lang, section string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	rec := &Record{
		Path:    path,
		Lang:    lang,
		Section: section,
		ModTime: info.ModTime(),
	}
	meta, body, err := DecodeRecord(string(data))
	if err != nil {
		rec.ParseErr = err
		return rec, nil
	}
	rec.Meta = meta
	rec.Body = body
	return rec, nil
}

// Write encodes and saves a record to its language/section directory,
// creating the directory if needed. The record's Path is updated.
func (s *Store) Write(rec *Record) error {
	if rec.Path == "" {
		return fmt.Errorf("record has no filename")
	}
	blob, err := EncodeRecord(rec.Meta, rec.Body)
	if err != nil {
		return err
	}

	dir := s.Dir(rec.Lang, rec.Section)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	path := filepath.Join(dir, rec.Filename())
	if err := os.WriteFile(path, []byte(blob), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	rec.Path = path
	return nil
}

// Move writes the record into the destination section and then deletes the
// original file. Write-then-delete ordering means a crash mid-move leaves
// the record duplicated, never lost.
func (s *Store) Move(rec *Record, toSection string) error {
	oldPath := rec.Path
	rec.Section = toSection
	if err := s.Write(rec); err != nil {
		rec.Section = sectionOf(oldPath)
		rec.Path = oldPath
		return err
	}
	if oldPath != rec.Path {
		if err := os.Remove(oldPath); err != nil {
			return fmt.Errorf("removing %s after move: %w", oldPath, err)
		}
	}
	return nil
}

// Delete removes a record file.
func (s *Store) Delete(path string) error {
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("deleting %s: %w", path, err)
	}
	return nil
}

// Exists reports whether a file exists at path.
func (s *Store) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// MarkerExists reports whether an operator marker file (for example the
// pause flag) is present at the content root. Markers are read-only to the
// pipeline; placing and removing them is an operator action.
func (s *Store) MarkerExists(name string) bool {
	return s.Exists(filepath.Join(s.root, name))
}

func sectionOf(path string) string {
	return filepath.Base(filepath.Dir(path))
}
