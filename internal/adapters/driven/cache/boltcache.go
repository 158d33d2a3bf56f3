// Package cache provides a persistent embedding cache backed by bbolt.
// Vectors are keyed by a digest of (model, text), so re-ingesting
// unchanged content never repeats a provider call.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

var bucketVectors = []byte("vectors")

// Ensure BoltCache implements the interface.
var _ driven.EmbeddingCache = (*BoltCache)(nil)

// BoltCache is a bbolt-backed embedding cache.
type BoltCache struct {
	db *bbolt.DB
}

// NewBoltCache opens (or creates) a cache database at path.
// If path is empty, defaults to ~/.corpora/data/embedcache.db.
func NewBoltCache(path string) (*BoltCache, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".corpora", "data", "embedcache.db")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	// Another corpora process (a running watch, say) may hold the file
	// lock. Fail after a second rather than blocking the command.
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketVectors)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating vectors bucket: %w", err)
	}

	return &BoltCache{db: db}, nil
}

// Get returns the cached vector for (model, text), if present.
func (c *BoltCache) Get(model, text string) ([]float32, bool) {
	var vector []float32
	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketVectors).Get(cacheKey(model, text))
		if data == nil {
			return nil
		}
		vector = decodeVector(data)
		return nil
	})
	if err != nil || vector == nil {
		return nil, false
	}
	return vector, true
}

// Put stores a vector for (model, text).
func (c *BoltCache) Put(model, text string, vector []float32) error {
	err := c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketVectors).Put(cacheKey(model, text), encodeVector(vector))
	})
	if err != nil {
		return fmt.Errorf("caching vector: %w", err)
	}
	return nil
}

// Close releases the underlying database.
func (c *BoltCache) Close() error {
	return c.db.Close()
}

// Path returns the cache database file path.
func (c *BoltCache) Path() string {
	return c.db.Path()
}

// cacheKey derives the bucket key for (model, text). Model and text
// are separated by a NUL so distinct pairs can never collide.
func cacheKey(model, text string) []byte {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return h.Sum(nil)
}

// encodeVector packs a vector as little-endian float32 bytes.
func encodeVector(vector []float32) []byte {
	buf := make([]byte, len(vector)*4)
	for i, f := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// decodeVector unpacks little-endian float32 bytes.
func decodeVector(data []byte) []float32 {
	if len(data) < 4 {
		return nil
	}
	vector := make([]float32, len(data)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vector
}
