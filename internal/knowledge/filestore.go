package knowledge

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// GraphFile is the JSON filename inside the data directory.
const GraphFile = "graph.json"

// FileStore persists the graph as one indented JSON document. Saves go to
// a temp file in the same directory which is then renamed over the target.
type FileStore struct {
	dir string
}

// NewFileStore creates a JSON-file store rooted at dataDir.
func NewFileStore(dataDir string) *FileStore {
	return &FileStore{dir: dataDir}
}

// Path returns the absolute path of the graph file.
func (f *FileStore) Path() string {
	return filepath.Join(f.dir, GraphFile)
}

// Load reads the graph file. A missing file is an empty graph.
func (f *FileStore) Load() (Snapshot, error) {
	data, err := os.ReadFile(f.Path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Snapshot{Nodes: []Node{}, Links: []Link{}}, nil
		}
		return Snapshot{}, fmt.Errorf("reading %s: %w", GraphFile, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("parsing %s: %w", GraphFile, err)
	}
	return snap.normalize(), nil
}

// Save writes snap atomically.
func (f *FileStore) Save(snap Snapshot) error {
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	data, err := json.MarshalIndent(snap.normalize(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding graph: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, GraphFile+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.Path()); err != nil {
		return fmt.Errorf("replacing %s: %w", GraphFile, err)
	}
	return nil
}
