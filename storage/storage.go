package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// ErrNotFound is returned when a key does not exist in storage
var ErrNotFound = errors.New("object not found")

// Storage interface for case document storage operations.
// Keys are slash separated paths relative to the storage root.
type Storage interface {
	// Put stores data under key, replacing any existing object
	Put(ctx context.Context, key string, data io.Reader) error

	// Get retrieves the object stored under key
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists reports whether key is present
	Exists(ctx context.Context, key string) (bool, error)

	// List returns the keys directly under prefix, sorted
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes the object stored under key
	Delete(ctx context.Context, key string) error
}

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// StorageConfig holds configuration for storage
type StorageConfig struct {
	Type         StorageType
	LocalPath    string // For local storage
	S3Bucket     string // For S3 storage
	S3Region     string // For S3 storage
	AWSAccessKey string
	AWSSecretKey string
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case StorageTypeLocal:
		return NewLocalStorage(cfg.LocalPath)
	case StorageTypeS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("S3 bucket is required for S3 storage")
		}
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// Key prefixes of the case document layout
const (
	CaseDocumentPrefix = "json/"
	CaseHTMLPrefix     = "html/"
	AnalysisPrefix     = "output/"
)

// CaseDocumentKey returns the key of a source case document
func CaseDocumentKey(filename string) string {
	return CaseDocumentPrefix + filename
}

// CaseHTMLKey returns the key of the rendered HTML for a case document
func CaseHTMLKey(filename string) string {
	return CaseHTMLPrefix + strings.TrimSuffix(filename, ".json") + ".html"
}

// AnalysisKey returns the key of the cached stage 1 analysis for a case document
func AnalysisKey(filename string) string {
	return AnalysisPrefix + filename
}

// ValidFilename reports whether name is a bare case document filename
func ValidFilename(name string) bool {
	if name == "" || strings.ContainsAny(name, `/\`) || name != path.Base(name) {
		return false
	}
	if strings.HasPrefix(name, ".") {
		return false
	}
	return strings.HasSuffix(name, ".json") && len(name) > len(".json")
}

// ReadAll reads and closes the object stored under key
func ReadAll(ctx context.Context, s Storage, key string) ([]byte, error) {
	reader, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}
