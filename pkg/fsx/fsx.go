// Package fsx reads attachment files from a configured store (local disk or S3).
package fsx

import (
	"context"
	"net/http"
	"time"

	"github.com/Abraxas-365/sesrelay/pkg/errx"
)

// FileInfo represents information about a stored file
type FileInfo struct {
	Name    string    // Base name of the file
	Size    int64     // File size in bytes
	ModTime time.Time // Modification time
}

// FileReader provides the read-only operations the mailer needs
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	Stat(ctx context.Context, path string) (FileInfo, error)
	Exists(ctx context.Context, path string) (bool, error)

	// HealthCheck reports whether the store itself is reachable
	HealthCheck(ctx context.Context) error
}

var fsxErrors = errx.NewRegistry("FSX")

var (
	ErrFileNotFound = fsxErrors.Register("FILE_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "File not found")
	ErrIsDirectory  = fsxErrors.Register("IS_DIRECTORY", errx.TypeValidation, http.StatusBadRequest, "Path is a directory")
	ErrReadFailed   = fsxErrors.Register("READ_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to read file")
	ErrUnavailable  = fsxErrors.Register("UNAVAILABLE", errx.TypeExternal, http.StatusServiceUnavailable, "File store unavailable")
)

// NotFound builds a FILE_NOT_FOUND error for path
func NotFound(path string) *errx.Error {
	return fsxErrors.New(ErrFileNotFound).WithDetail("path", path)
}

// IsDirectory builds an IS_DIRECTORY error for path
func IsDirectory(path string) *errx.Error {
	return fsxErrors.New(ErrIsDirectory).WithDetail("path", path)
}

// ReadFailed wraps an I/O failure for path
func ReadFailed(path string, cause error) *errx.Error {
	return fsxErrors.NewWithCause(ErrReadFailed, cause).WithDetail("path", path)
}

// Unavailable wraps a failed store health check
func Unavailable(store string, cause error) *errx.Error {
	return fsxErrors.NewWithCause(ErrUnavailable, cause).WithDetail("store", store)
}

// IsNotFound reports whether err is a FILE_NOT_FOUND error
func IsNotFound(err error) bool {
	e, ok := errx.As(err)
	return ok && e.Code == ErrFileNotFound.Code
}

// IsUnavailable reports whether err is an UNAVAILABLE error
func IsUnavailable(err error) bool {
	e, ok := errx.As(err)
	return ok && e.Code == ErrUnavailable.Code
}
