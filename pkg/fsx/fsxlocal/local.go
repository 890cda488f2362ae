package fsxlocal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Abraxas-365/sesrelay/pkg/fsx"
)

// LocalFileSystem implements fsx.FileReader on local disk. Every path is
// resolved under basePath; ".." segments cannot climb above it.
type LocalFileSystem struct {
	basePath string
}

// NewLocalFileSystem creates a reader rooted at basePath (e.g. "/" or "./attachments")
func NewLocalFileSystem(basePath string) (*LocalFileSystem, error) {
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("attachment root unavailable: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("attachment root is not a directory: %s", absPath)
	}

	return &LocalFileSystem{basePath: absPath}, nil
}

func (fs *LocalFileSystem) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if _, err := fs.Stat(ctx, path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(fs.fullPath(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fsx.NotFound(path)
		}
		return nil, fsx.ReadFailed(path, err)
	}
	return data, nil
}

func (fs *LocalFileSystem) Stat(ctx context.Context, path string) (fsx.FileInfo, error) {
	info, err := os.Stat(fs.fullPath(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fsx.FileInfo{}, fsx.NotFound(path)
		}
		return fsx.FileInfo{}, fsx.ReadFailed(path, err)
	}
	if info.IsDir() {
		return fsx.FileInfo{}, fsx.IsDirectory(path)
	}

	return fsx.FileInfo{
		Name:    info.Name(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

func (fs *LocalFileSystem) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(fs.fullPath(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fsx.ReadFailed(path, err)
	}
	return true, nil
}

// HealthCheck verifies the root directory is still there
func (fs *LocalFileSystem) HealthCheck(ctx context.Context) error {
	info, err := os.Stat(fs.basePath)
	if err != nil {
		return fsx.Unavailable(fs.basePath, err)
	}
	if !info.IsDir() {
		return fsx.Unavailable(fs.basePath, errors.New("not a directory"))
	}
	return nil
}

// BasePath returns the resolved root directory
func (fs *LocalFileSystem) BasePath() string {
	return fs.basePath
}

// fullPath anchors path at "/" before cleaning so the result stays under basePath
func (fs *LocalFileSystem) fullPath(path string) string {
	return filepath.Join(fs.basePath, filepath.Clean(string(filepath.Separator)+path))
}

var _ fsx.FileReader = (*LocalFileSystem)(nil)
