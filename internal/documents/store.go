// Package documents implements the per-recipe JSON document store. Each
// recipe's free-form payload lives in its own file under the store
// directory; the relational store only keeps the file path. Documents
// are whole-file rewrites, written through a temp file and rename so a
// partial write is never reported as success.
package documents

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/brewstack/coffeecli/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// Transform rewrites a single document during a bulk migration. It
// returns the new payload, whether the document changed, and an error
// for genuinely broken input. Returning changed=false skips the write.
type Transform func(doc map[string]interface{}) (map[string]interface{}, bool, error)

// Store reads and writes recipe documents in a single directory.
type Store struct {
	dir string
}

// NewStore creates the store directory if needed and returns a Store
// rooted at it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating document directory %s: %v", models.ErrIO, dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory the store writes into.
func (s *Store) Dir() string {
	return s.dir
}

// Save serializes payload to a new document named recipe_<uuid>.json
// and returns its path. The uuid decouples file naming from the recipe
// content, so identical payloads never collide.
func (s *Store) Save(payload map[string]interface{}) (string, error) {
	name := fmt.Sprintf("recipe_%s.json", uuid.NewString())
	path := filepath.Join(s.dir, name)

	if err := s.write(path, payload); err != nil {
		return "", err
	}

	log.WithFields(logrus.Fields{
		"file": name,
	}).Info("Recipe document saved")
	return path, nil
}

// Load reads and parses the document at path. Numbers are decoded as
// json.Number so later decimal conversions see the original literal
// rather than a binary float.
func (s *Store) Load(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: recipe document %s", models.ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: reading %s: %v", models.ErrIO, path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc map[string]interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrCorruptData, path, err)
	}
	return doc, nil
}

// Delete removes the document at path. Missing files are not an error;
// the caller only cares that the file is gone.
func (s *Store) Delete(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: removing %s: %v", models.ErrIO, path, err)
	}
	return nil
}

// RewriteAll applies transform to every recipe document in the store
// and writes back the ones that changed. Documents the transform leaves
// unchanged are skipped and logged. A failing document aborts the batch
// so a migration never half-applies silently.
func (s *Store) RewriteAll(transform Transform) error {
	paths, err := filepath.Glob(filepath.Join(s.dir, "recipe_*.json"))
	if err != nil {
		return fmt.Errorf("%w: listing documents in %s: %v", models.ErrIO, s.dir, err)
	}

	rewritten := 0
	for _, path := range paths {
		doc, err := s.Load(path)
		if err != nil {
			return err
		}

		next, changed, err := transform(doc)
		if err != nil {
			return fmt.Errorf("transforming %s: %w", path, err)
		}
		if !changed {
			log.WithField("file", filepath.Base(path)).Info("Document unchanged, skipping")
			continue
		}

		if err := s.write(path, next); err != nil {
			return err
		}
		rewritten++
	}

	log.WithFields(logrus.Fields{
		"total":     len(paths),
		"rewritten": rewritten,
	}).Info("Document rewrite complete")
	return nil
}

// write serializes doc with stable 4-space indentation and replaces the
// file at path atomically via rename.
func (s *Store) write(path string, doc map[string]interface{}) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: serializing %s: %v", models.ErrIO, path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", models.ErrIO, tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: replacing %s: %v", models.ErrIO, path, err)
	}
	return nil
}
