// Package storage implements the public object bucket for cover images and
// avatars: a directory on disk, auto-provisioned on first use, served under
// the /storage/ URL prefix.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Kind selects the subdirectory and resize policy for an upload.
type Kind string

const (
	KindCover  Kind = "covers"
	KindAvatar Kind = "avatars"
)

// Bucket stores processed uploads under a root directory.
type Bucket struct {
	root string
}

// NewBucket provisions the bucket directories if they do not exist yet.
func NewBucket(root string) (*Bucket, error) {
	for _, kind := range []Kind{KindCover, KindAvatar} {
		if err := os.MkdirAll(filepath.Join(root, string(kind)), 0o755); err != nil {
			return nil, fmt.Errorf("failed to provision bucket directory: %w", err)
		}
	}
	return &Bucket{root: root}, nil
}

// Root returns the bucket's base directory, for serving and watching.
func (b *Bucket) Root() string {
	return b.root
}

// Save processes the raw upload for its kind and writes it under a fresh
// UUID name. It returns the public URL path of the stored object.
func (b *Bucket) Save(kind Kind, data []byte) (string, error) {
	var processed []byte
	var err error
	switch kind {
	case KindAvatar:
		processed, err = processAvatar(data)
	default:
		processed, err = processCover(data)
	}
	if err != nil {
		return "", err
	}

	name := uuid.NewString() + ".jpg"
	path := filepath.Join(b.root, string(kind), name)
	if err := os.WriteFile(path, processed, 0o644); err != nil {
		return "", fmt.Errorf("failed to write object: %w", err)
	}
	return "/storage/" + string(kind) + "/" + name, nil
}

// Remove deletes a stored object by its public URL path. A missing object
// is not an error; references can outlive files.
func (b *Bucket) Remove(publicURL string) error {
	rel, ok := trimStoragePrefix(publicURL)
	if !ok {
		return nil
	}
	err := os.Remove(filepath.Join(b.root, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func trimStoragePrefix(publicURL string) (string, bool) {
	const prefix = "/storage/"
	if len(publicURL) <= len(prefix) || publicURL[:len(prefix)] != prefix {
		return "", false
	}
	return publicURL[len(prefix):], true
}
