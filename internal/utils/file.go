package utils

import (
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

var imageExts = []string{"jpg", "jpeg", "png", "gif", "bmp", "tiff", "tif", "webp"}

// EnsureDir creates a directory if it doesn't exist
func EnsureDir(fsys afero.Fs, dir string) error {
	exists, err := afero.DirExists(fsys, dir)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return fsys.MkdirAll(dir, 0o755)
}

// GetFileExtension returns the lower-cased file extension without the dot
func GetFileExtension(filename string) string {
	ext := filepath.Ext(filename)
	if len(ext) > 0 {
		return strings.ToLower(ext[1:])
	}
	return ""
}

// IsImageFile checks if a file has an image extension
func IsImageFile(filename string) bool {
	return slices.Contains(imageExts, GetFileExtension(filename))
}

// ListImageFiles lists the image files in dir, descending into
// subdirectories only when recursive is set. The result is sorted.
func ListImageFiles(fsys afero.Fs, dir string, recursive bool) ([]string, error) {
	info, err := fsys.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input directory: %s is not a directory", dir)
	}

	var files []string
	err = afero.Walk(fsys, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path != dir && !recursive {
				return fs.SkipDir
			}
			return nil
		}

		if IsImageFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)
	return files, nil
}

// SelectRandom returns limit files sampled without replacement. A limit of
// zero or one at least len(files) returns all files in their original order.
func SelectRandom(files []string, limit int, rng *rand.Rand) []string {
	if limit <= 0 || limit >= len(files) {
		return files
	}

	picked := slices.Clone(files)
	rng.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	return picked[:limit]
}
