package httputil

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/sync/singleflight"
)

// Key returns the hex SHA-256 digest of parts. Each part is length
// prefixed, so ("ab", "c") and ("a", "bc") produce different keys.
func Key(parts ...[]byte) string {
	h := sha256.New()
	var size [8]byte
	for _, p := range parts {
		n := uint64(len(p))
		for i := range size {
			size[i] = byte(n >> (8 * i))
		}
		h.Write(size[:])
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Group collapses concurrent calls with the same key into one execution.
// The zero value is ready to use.
type Group struct {
	g singleflight.Group
}

// Do runs fn once for all concurrent callers sharing key. shared reports
// whether the result was delivered to more than one caller.
func (g *Group) Do(key string, fn func() ([]byte, error)) (data []byte, err error, shared bool) {
	v, err, shared := g.g.Do(key, func() (any, error) {
		return fn()
	})
	if err != nil {
		return nil, err, shared
	}
	data, _ = v.([]byte)
	return data, nil, shared
}
