// Package scan discovers image files beneath a directory.
package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"imgview/internal/errors"
	"imgview/internal/log"

	"github.com/gobwas/glob"
)

// Extensions is the whitelist of image extensions, without the dot.
var Extensions = []string{"png", "jpg", "jpeg", "gif", "bmp"}

var imagePattern = glob.MustCompile("*.{" + strings.Join(Extensions, ",") + "}")

// IsImage reports whether name carries a whitelisted extension. The match is
// case-insensitive and only the final extension counts.
func IsImage(name string) bool {
	return imagePattern.Match(strings.ToLower(filepath.Base(name)))
}

// Directory walks root recursively and returns the absolute paths of every
// image file beneath it in lexicographic order.
//
// Unreadable subdirectories are skipped. When root itself cannot be used the
// returned slice is empty and the error says why; callers that only care
// about the image set can ignore it.
func Directory(root string) ([]string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return []string{}, errors.NewFileError("invalid directory path", root, errors.DirectoryNotFound, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, errors.NewFileError("directory not found", abs, errors.DirectoryNotFound, err)
		}
		return []string{}, errors.NewFileError("cannot access directory", abs, errors.DirectoryUnreadable, err)
	}
	if !info.IsDir() {
		return []string{}, errors.NewFileError("not a directory", abs, errors.NotADirectory, nil)
	}

	// WalkDir does not descend into a symlinked root, so walk its target and
	// report paths under the name we were given.
	walkRoot := abs
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		walkRoot = resolved
	}

	images := []string{}
	err = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == walkRoot {
				return errors.NewFileError("cannot read directory", abs, errors.DirectoryUnreadable, walkErr)
			}
			log.LogWithFields(log.F("path", path), log.F("error", walkErr.Error())).Debug("Skipping unreadable entry")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !IsImage(d.Name()) {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			// a link to a directory is not a file, whatever it is called
			if target, err := os.Stat(path); err == nil && target.IsDir() {
				return nil
			}
		}
		rel, err := filepath.Rel(walkRoot, path)
		if err != nil {
			return err
		}
		images = append(images, filepath.Join(abs, rel))
		return nil
	})
	if err != nil {
		return []string{}, err
	}

	sort.Strings(images)
	return images, nil
}
