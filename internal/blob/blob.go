// Package blob stores uploaded jewellery photos and returns the public URL
// under which each one can be fetched.
package blob

import (
	"context"
	"errors"
	"strings"
)

// ErrInvalidKey is returned for keys that would escape the store.
var ErrInvalidKey = errors.New("invalid object key")

// Store writes an object and reports its public URL.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

func validKey(key string) bool {
	if key == "" || key == "." || key == ".." {
		return false
	}
	return !strings.ContainsAny(key, `/\`)
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
