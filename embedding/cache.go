package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileCache implements Cache on the local filesystem. Each vector is a
// JSON file named by the content hash, so an index rebuild only re-encodes
// texts whose label or description changed.
type FileCache struct {
	dir string
}

// NewFileCache creates the cache directory if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create embedding cache dir: %w", err)
	}
	return &FileCache{dir: dir}, nil
}

// Get reads a cached vector by content hash.
func (c *FileCache) Get(_ context.Context, contentHash string) ([]float32, error) {
	data, err := os.ReadFile(c.path(contentHash))
	if err != nil {
		return nil, fmt.Errorf("cache miss: %w", err)
	}
	var vector []float32
	if err := json.Unmarshal(data, &vector); err != nil {
		return nil, fmt.Errorf("unmarshal cached embedding: %w", err)
	}
	return vector, nil
}

// Put writes a vector under the content hash. The write goes through a
// temp file so a crash cannot leave a truncated entry.
func (c *FileCache) Put(_ context.Context, contentHash string, vector []float32) error {
	data, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("marshal embedding: %w", err)
	}
	tmp, err := os.CreateTemp(c.dir, "embed-*")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path(contentHash)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("commit cache file: %w", err)
	}
	return nil
}

func (c *FileCache) path(contentHash string) string {
	return filepath.Join(c.dir, contentHash+".json")
}

// ContentHash returns the SHA-256 hex digest of text, the cache key used
// throughout the package.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
