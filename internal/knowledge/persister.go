package knowledge

import (
	"fmt"
	"io"
)

// Storage backends selectable by configuration.
const (
	StorageSQLite = "sqlite"
	StorageJSON   = "json"
)

// Persister is the durable store behind a Graph. Save must replace the
// whole stored graph atomically: a reader never sees new nodes with old
// links or the reverse.
type Persister interface {
	Load() (Snapshot, error)
	Save(Snapshot) error
}

// Observer receives persistence timings and graph sizes after every save.
type Observer interface {
	GraphSaved(stats Stats, seconds float64, err error)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewPersister opens the backend named by storage under dataDir. The
// returned closer releases it.
func NewPersister(storage, dataDir string) (Persister, io.Closer, error) {
	switch storage {
	case StorageSQLite, "":
		s, err := NewSQLiteStore(dataDir)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case StorageJSON:
		return NewFileStore(dataDir), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("knowledge: unknown storage %q (want %s or %s)", storage, StorageSQLite, StorageJSON)
	}
}
