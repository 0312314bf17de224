package badger

import (
	"encoding/binary"
)

// Key prefix for chunk records
const chunkRecordPrefix = "chkrec"

// collectionPrefix returns the key prefix shared by every chunk of a
// collection. Format: prefix:collection:
func collectionPrefix(collection string) []byte {
	return []byte(chunkRecordPrefix + ":" + collection + ":")
}

// makeChunkKey generates a key for a chunk by its rebuild sequence number.
// Format: prefix:collection:seq
func makeChunkKey(collection string, seq uint64) []byte {
	prefixBytes := collectionPrefix(collection)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort preserves insertion order
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}
