package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a namespaced cache key from a prefix and the key
// components, formatted as prefix:sha256(parts). The options struct is
// included in the parts, so any option change invalidates the entry.
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash returns the hex SHA-256 of data. Used for graph content hashes
// (the serialized graph is the layout's sole input besides options) and
// for sharding cache files on disk. The full 64-character digest is kept
// so distinct graphs can never collide on a key.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
