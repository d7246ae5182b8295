// Package filesvc stores uploaded files on local disk under the configured
// media root and hands back the URL path the API serves them from.
package filesvc

import (
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/edutrack/backend/core"
)

const URLPrefix = "/media"

type Storage struct {
	root string
}

func NewLocalStorage(conf *core.Config) (*Storage, error) {
	root := conf.MediaRoot
	if !filepath.IsAbs(root) {
		root = filepath.Join(conf.WorkDir, root)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating media root")
	}
	return &Storage{root: root}, nil
}

// Root is where stored files live on disk; the server mounts it under URLPrefix.
func (s *Storage) Root() string { return s.root }

// Save writes the content under a unique name and returns the URL path.
// The original filename only contributes its extension.
func (s *Storage) Save(src io.Reader, filename string) (string, error) {
	name := uuid.New().String() + strings.ToLower(filepath.Ext(filename))

	dst, err := os.Create(filepath.Join(s.root, name))
	if err != nil {
		return "", errors.Wrap(err, "creating media file")
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		return "", errors.Wrap(err, "writing media file")
	}
	return path.Join(URLPrefix, name), nil
}

// Remove deletes a previously stored file given its URL path. Unknown paths
// are ignored.
func (s *Storage) Remove(urlPath string) error {
	name := path.Base(urlPath)
	if err := os.Remove(filepath.Join(s.root, name)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing media file")
	}
	return nil
}
