// Package storage keeps document attachments on the local filesystem or in S3.
package storage

import (
	"fmt"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/wilsy/service-tracker/internal/core/ports"
)

// Type represents the storage backend type.
type Type string

const (
	TypeLocal Type = "local"
	TypeS3    Type = "s3"
)

const keyPrefix = "attachments"

// Config holds configuration for storage.
type Config struct {
	Type         Type
	LocalPath    string
	S3Bucket     string
	S3Region     string
	AWSAccessKey string
	AWSSecretKey string
}

// New creates the storage backend selected by cfg.Type.
func New(cfg Config) (ports.FileStorage, error) {
	switch cfg.Type {
	case TypeLocal, "":
		return NewLocalStorage(cfg.LocalPath)
	case TypeS3:
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// newKey generates a unique object key for an uploaded file, e.g.
// attachments/3f/3f2a..._return_of_service.pdf
func newKey(filename string) string {
	id := uuid.New().String()
	ext := filepath.Ext(filename)
	base := sanitize(strings.TrimSuffix(filepath.Base(filename), ext))
	return path.Join(keyPrefix, id[:2], fmt.Sprintf("%s_%s%s", id, base, sanitize(ext)))
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, s)
}

// validKey rejects keys that were not produced by newKey.
func validKey(key string) bool {
	if !strings.HasPrefix(key, keyPrefix+"/") {
		return false
	}
	return path.Clean(key) == key
}

// ContentType maps a file name or key to its media type, falling back to
// application/octet-stream.
func ContentType(name string) string {
	if t := mime.TypeByExtension(strings.ToLower(path.Ext(name))); t != "" {
		return t
	}
	return "application/octet-stream"
}

func init() {
	// Word formats are missing from the built-in table on minimal images.
	_ = mime.AddExtensionType(".doc", "application/msword")
	_ = mime.AddExtensionType(".docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
}
