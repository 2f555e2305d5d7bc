package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"eventhub/internal/domain"
)

type diskImageStore struct {
	dir string
}

// NewDiskImageStore returns an ImageStore that writes event images under dir,
// creating it on first save. Saved paths are of the form
// "/uploads/events/event_<timestamp>_<random><ext>".
func NewDiskImageStore(dir string) domain.ImageStore {
	return &diskImageStore{dir: dir}
}

func (s *diskImageStore) Save(filename, contentType string, r io.Reader) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", domain.ErrInvalidInput
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	suffix := make([]byte, 6)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("generate image name: %w", err)
	}
	ext := filepath.Ext(filename)
	name := fmt.Sprintf("event_%d_%s%s", time.Now().UnixNano(), hex.EncodeToString(suffix), ext)

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}
	return "/uploads/events/" + name, nil
}
