package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MarkerFile is the collection marker at the root of every collection.
const MarkerFile = "bruno.json"

// Collection is the parsed bruno.json collection configuration.
type Collection struct {
	Version string `json:"version,omitempty"`
	Name    string `json:"name,omitempty"`
	Type    string `json:"type,omitempty"`

	Ignore []string `json:"ignore,omitempty"`

	// Path is the directory holding the marker file. Not serialized.
	Path string `json:"-"`
}

// FindCollectionRoot walks upward from start looking for the collection
// marker file. A path outside any collection is a fatal configuration
// error: requests only make sense relative to their collection root.
func FindCollectionRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(dir)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		marker := filepath.Join(dir, MarkerFile)
		if _, err := os.Stat(marker); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%s not found in %s or any parent directory", MarkerFile, start)
		}
		dir = parent
	}
}

// LoadCollection reads and validates the marker file at root.
func LoadCollection(root string) (*Collection, error) {
	data, err := os.ReadFile(filepath.Join(root, MarkerFile))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", MarkerFile, err)
	}

	c := &Collection{}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", MarkerFile, err)
	}
	c.Path = root

	if c.Type != "" && c.Type != "collection" {
		return nil, fmt.Errorf("%s: unexpected type %q", MarkerFile, c.Type)
	}

	return c, nil
}
