package cache

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"

	"github.com/zeebo/xxh3"
)

// CacheVersion is incremented when the cache format changes.
const CacheVersion = 1

// Record is a cached type guess for one file.
type Record struct {
	Kind  string // Registered type name (e.g. "TextEntry")
	Size  int64  // File size in bytes at guess time
	Mtime int64  // Modification time as UnixNano at guess time
}

// Encode serializes the record to bytes using gob.
func (r *Record) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode deserializes bytes into the record using gob.
func (r *Record) Decode(data []byte) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(r)
}

// MakeKey hashes an absolute path into a fixed-width cache key.
// Format: <version byte><xxh3-128 of path>
func MakeKey(path string) []byte {
	sum := xxh3.Hash128([]byte(path))
	key := make([]byte, 17)
	key[0] = CacheVersion
	binary.BigEndian.PutUint64(key[1:9], sum.Hi)
	binary.BigEndian.PutUint64(key[9:17], sum.Lo)
	return key
}
