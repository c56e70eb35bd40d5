package certificate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"eventhubconnect/internal/domain"
)

type localStore struct {
	basePath string
}

// NewLocalStore returns a CertificateStore that writes artifacts under
// basePath. The returned URL is the path relative to basePath.
func NewLocalStore(basePath string) (domain.CertificateStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create certificate directory %s: %w", basePath, err)
	}
	return &localStore{basePath: basePath}, nil
}

func (s *localStore) Save(ctx context.Context, fileName string, pdf []byte) (string, error) {
	// Artifact names come from generated serials, but reject traversal anyway.
	if fileName != filepath.Base(fileName) || strings.HasPrefix(fileName, ".") {
		return "", fmt.Errorf("invalid certificate file name %q", fileName)
	}
	dst := filepath.Join(s.basePath, fileName)
	if err := os.WriteFile(dst, pdf, 0o644); err != nil {
		return "", fmt.Errorf("write certificate file: %w", err)
	}
	return fileName, nil
}

func (s *localStore) Open(ctx context.Context, url string) ([]byte, error) {
	if url != filepath.Base(url) || strings.HasPrefix(url, ".") {
		return nil, fmt.Errorf("invalid certificate url %q", url)
	}
	data, err := os.ReadFile(filepath.Join(s.basePath, url))
	if err != nil {
		return nil, fmt.Errorf("read certificate file: %w", err)
	}
	return data, nil
}
