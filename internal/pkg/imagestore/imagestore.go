package imagestore

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store accepts an image payload and returns a retrievable reference.
// The core keeps only the reference.
type Store interface {
	Save(payload string) (string, error)
}

// DiskStore decodes `data:image/...;base64,` payloads (or bare base64)
// into files under dir and returns the public URL path.
type DiskStore struct {
	dir       string
	publicURL string
}

func NewDiskStore(dir, publicURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

func (s *DiskStore) Save(payload string) (string, error) {
	ext := ".png"
	if idx := strings.Index(payload, ";base64,"); idx >= 0 {
		header := payload[:idx]
		if strings.HasPrefix(header, "data:image/") {
			ext = "." + strings.TrimPrefix(header, "data:image/")
		}
		payload = payload[idx+len(";base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	return s.publicURL + "/" + name, nil
}
