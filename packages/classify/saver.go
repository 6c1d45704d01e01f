package classify

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Saver writes attachments to a directory.
type Saver struct {
	Dir string
}

// NewSaver returns a saver for dir; an empty dir means os.TempDir().
func NewSaver(dir string) *Saver {
	return &Saver{Dir: dir}
}

// Path resolves where an attachment is written. Suggested names are reduced
// to their base name; a missing name gets a unique generated one.
func (s *Saver) Path(a Attachment) string {
	dir := s.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, safeName(a.Filename))
}

func safeName(suggested string) string {
	name := filepath.Base(strings.ReplaceAll(suggested, `\`, "/"))
	if name == "." || name == ".." || name == "/" || strings.TrimSpace(name) == "" {
		return "barbouse-" + uuid.NewString()
	}
	return name
}

// Save streams the attachment bytes to its resolved path and returns it.
func (s *Saver) Save(a Attachment) (string, error) {
	path := s.Path(a)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating attachment directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating attachment file: %w", err)
	}
	if _, err := io.Copy(f, bytes.NewReader(a.Data)); err != nil {
		f.Close()
		return "", fmt.Errorf("writing attachment %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("writing attachment %s: %w", path, err)
	}
	return path, nil
}
