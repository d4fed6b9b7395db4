// Package mediastore decodes base64 image payloads and keeps them as files
// under the media root. Callers get back the URL the file is served at; the
// bytes are never inspected beyond the data URI envelope.
package mediastore

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidImage is returned when the payload is not a decodable
// base64 image data URI.
var ErrInvalidImage = errors.New("invalid image payload")

// Store writes uploaded images below Root and serves them at URLPrefix.
type Store struct {
	Root      string
	URLPrefix string
}

// New creates a Store rooted at root, served under urlPrefix (e.g. "/media").
func New(root, urlPrefix string) *Store {
	return &Store{Root: root, URLPrefix: strings.TrimRight(urlPrefix, "/")}
}

// SaveDataURI decodes a "data:image/<ext>;base64,<payload>" string, writes
// the bytes under subdir with a generated name and returns the serving URL.
func (s *Store) SaveDataURI(dataURI, subdir string) (string, error) {
	format, payload, found := strings.Cut(dataURI, ";base64,")
	if !found || !strings.HasPrefix(format, "data:image/") {
		return "", ErrInvalidImage
	}
	ext := strings.TrimPrefix(format, "data:image/")
	if ext == "" || strings.ContainsAny(ext, "/\\.") {
		return "", ErrInvalidImage
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrInvalidImage
	}

	dir := filepath.Join(s.Root, filepath.FromSlash(subdir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	name := uuid.NewString() + "." + ext
	if err := os.WriteFile(filepath.Join(dir, name), decoded, 0o644); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}

	return s.URLPrefix + "/" + subdir + "/" + name, nil
}

// Remove deletes a previously stored file given its serving URL. Unknown
// URLs are ignored.
func (s *Store) Remove(url string) error {
	rel, found := strings.CutPrefix(url, s.URLPrefix+"/")
	if !found || rel == "" || strings.Contains(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
