package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
)

// FileStore persists each map's distance set as a JSON file under a data
// directory, one file per map ID. With compression enabled the JSON payload
// is snappy-encoded and the file carries a .sz suffix.
type FileStore struct {
	dataDir  string
	compress bool
}

// NewFileStore creates the data directory if needed and returns a file-backed
// distance store.
func NewFileStore(dataDir string, compress bool) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{dataDir: dataDir, compress: compress}, nil
}

// validMapID rejects identifiers that would resolve to a path outside the
// data directory. Map IDs come straight off the wire.
func validMapID(mapID string) bool {
	return mapID != "" && mapID != "." && mapID != ".." &&
		!strings.ContainsAny(mapID, `/\`)
}

func (fs *FileStore) path(mapID string) string {
	name := mapID + ".json"
	if fs.compress {
		name += ".sz"
	}
	return filepath.Join(fs.dataDir, name)
}

// Save writes the full record list for mapID, replacing any prior file.
func (fs *FileStore) Save(_ context.Context, mapID string, records []Record) error {
	if !validMapID(mapID) {
		return fmt.Errorf("invalid map id: %q", mapID)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode distance set: %w", err)
	}
	if fs.compress {
		data = snappy.Encode(nil, data)
	}

	// Write via a temp file and rename so a crashed save never leaves a
	// truncated set readable under the map ID.
	tmp, err := os.CreateTemp(fs.dataDir, mapID+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write distance set: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), fs.path(mapID)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace distance set: %w", err)
	}
	return nil
}

// Load reads the record list for mapID. Returns ErrNotFound when no file
// exists for the map.
func (fs *FileStore) Load(_ context.Context, mapID string) ([]Record, error) {
	if !validMapID(mapID) {
		return nil, fmt.Errorf("invalid map id: %q", mapID)
	}
	data, err := os.ReadFile(fs.path(mapID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, mapID)
		}
		return nil, fmt.Errorf("failed to read distance set: %w", err)
	}

	if fs.compress {
		data, err = snappy.Decode(nil, data)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress distance set: %w", err)
		}
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode distance set: %w", err)
	}
	return records, nil
}

var _ DistanceStore = (*FileStore)(nil)
