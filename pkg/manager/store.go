package manager

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DocumentVersion tags the persisted JSON schema.
const DocumentVersion = "1.0"

// Document is the persisted collection of profiles.
// Connections keep insertion order; that order is the display and storage
// order and is stable across load/save cycles.
type Document struct {
	Version     string    `json:"version"`
	Connections []Profile `json:"connections"`
}

// NewDocument returns an empty document with the current schema version.
func NewDocument() *Document {
	return &Document{Version: DocumentVersion, Connections: []Profile{}}
}

// Store owns the canonical on-disk profile collection.
//
// All operations are whole-document read-modify-write cycles. There is no
// locking: sshman assumes one interactive process at a time, and a lost
// update between two concurrent instances is accepted.
type Store struct {
	path string
}

// NewStore constructs a store over the given file path. If path is empty,
// the default location under the user config dir is used. The path is
// injected (rather than resolved per call) so tests can point the store
// at a temp dir.
func NewStore(path string) (*Store, error) {
	path = expandPath(strings.TrimSpace(path))
	if path == "" {
		var err error
		path, err = DefaultStorePath()
		if err != nil {
			return nil, err
		}
	}
	return &Store{path: path}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load reads the persisted document. A missing file, undecodable JSON, or
// schema-invalid content all yield a fresh empty document; corruption is
// never surfaced to the caller and the unreadable file is left in place
// until the next Save.
func (s *Store) Load() *Document {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return NewDocument()
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return NewDocument()
	}
	for _, p := range doc.Connections {
		if p.Validate() != nil {
			return NewDocument()
		}
	}
	if doc.Version == "" {
		doc.Version = DocumentVersion
	}
	if doc.Connections == nil {
		doc.Connections = []Profile{}
	}
	return &doc
}

// Save writes the full document, creating the parent directory if needed.
// The write goes through a temp file and rename so a crash mid-write
// cannot leave a truncated document behind.
func (s *Store) Save(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("save %s: nil document", s.path)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create store dir %s: %w", dir, err)
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	payload = append(payload, '\n')

	tmp := s.path + fmt.Sprintf(".tmp-%d-%d", os.Getpid(), time.Now().UnixNano())
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return fmt.Errorf("write temp store %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename to %s: %w", s.path, err)
	}
	return nil
}

// List returns all saved profiles in storage order.
func (s *Store) List() []Profile {
	return s.Load().Connections
}

// Add appends a profile and persists. The store does not reject duplicate
// names here; only the import path deduplicates (see Reconcile).
func (s *Store) Add(p Profile) error {
	doc := s.Load()
	doc.Connections = append(doc.Connections, p)
	return s.Save(doc)
}

// Update replaces the profile at index and persists. An out-of-range
// index is a silent no-op; the index contract is positional against the
// unfiltered persisted order.
func (s *Store) Update(index int, p Profile) error {
	doc := s.Load()
	if index < 0 || index >= len(doc.Connections) {
		return nil
	}
	doc.Connections[index] = p
	return s.Save(doc)
}

// Delete removes the profile at index and persists. An out-of-range index
// is a silent no-op.
func (s *Store) Delete(index int) error {
	doc := s.Load()
	if index < 0 || index >= len(doc.Connections) {
		return nil
	}
	doc.Connections = append(doc.Connections[:index], doc.Connections[index+1:]...)
	return s.Save(doc)
}
