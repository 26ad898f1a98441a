package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrFileTooLarge    = errors.New("image exceeds the maximum upload size")
	ErrDisallowedType  = errors.New("unsupported file type, only JPEG and PNG are allowed")
	ErrInvalidFilename = errors.New("invalid image filename")
)

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// ImageStore persists profile images and deletes replaced ones.
type ImageStore interface {
	Store(ctx context.Context, src io.Reader, accountID string) (string, error)
	Delete(filename string) error
}

// DiskImageStore keeps uploaded profile images on the local filesystem under
// a single flat directory. Filenames are generated server-side; client names
// are never trusted.
type DiskImageStore struct {
	rootDir  string
	maxBytes int64
}

func NewDiskImageStore(rootDir string, maxBytes int64) (*DiskImageStore, error) {
	if strings.TrimSpace(rootDir) == "" {
		return nil, fmt.Errorf("image root directory is required")
	}
	if maxBytes <= 0 {
		return nil, fmt.Errorf("max upload bytes must be > 0")
	}

	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating image root directory: %w", err)
	}

	return &DiskImageStore{
		rootDir:  rootDir,
		maxBytes: maxBytes,
	}, nil
}

func (s *DiskImageStore) MaxBytes() int64 {
	return s.maxBytes
}

// Store sniffs the content type, enforces the size cap, and writes the image
// through a temp file so a failed upload never leaves a partial image behind.
func (s *DiskImageStore) Store(_ context.Context, src io.Reader, accountID string) (string, error) {
	sniff := make([]byte, 512)
	sniffN, sniffErr := io.ReadFull(src, sniff)
	if sniffErr != nil && sniffErr != io.EOF && sniffErr != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("reading image data: %w", sniffErr)
	}
	sniff = sniff[:sniffN]

	mimeType := http.DetectContentType(sniff)
	ext, ok := allowedTypes[mimeType]
	if !ok {
		return "", ErrDisallowedType
	}

	filename := fmt.Sprintf("account-%s-%d-%s%s", accountID, time.Now().UnixMilli(), uuid.New().String()[:8], ext)
	absPath := filepath.Join(s.rootDir, filename)

	tmpFile, err := os.CreateTemp(s.rootDir, filename+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("creating temporary image file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	fullReader := io.MultiReader(bytes.NewReader(sniff), src)
	written, err := io.Copy(tmpFile, io.LimitReader(fullReader, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("writing image data: %w", err)
	}
	if written > s.maxBytes {
		return "", ErrFileTooLarge
	}

	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("closing image file: %w", err)
	}
	if err := os.Rename(tmpPath, absPath); err != nil {
		return "", fmt.Errorf("storing image file: %w", err)
	}

	return filename, nil
}

// Delete removes a stored image. A missing file is not an error; replacement
// deletes are best-effort by contract.
func (s *DiskImageStore) Delete(filename string) error {
	if filename == "" {
		return nil
	}
	// Reject anything that could escape the root directory
	if filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return ErrInvalidFilename
	}

	err := os.Remove(filepath.Join(s.rootDir, filename))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting image file: %w", err)
	}
	return nil
}
