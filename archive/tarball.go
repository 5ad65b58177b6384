package archive

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// excludedNames are path components that never enter an artifact. The
// remote job has no use for version control state.
var excludedNames = []string{".git", ".gitignore"}

func excluded(relPath string) bool {
	for _, part := range strings.Split(relPath, "/") {
		for _, name := range excludedNames {
			if part == name {
				return true
			}
		}
	}
	return false
}

// writeTarball writes folder as a gzipped tar-stream to w, with all
// entries rooted under the folder's basename, matching how the job
// extracts it. Entries with an excluded path component are skipped.
// Regular files, folders and symlinks are preserved with their modes.
func writeTarball(w io.Writer, folder string) error {
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	base := filepath.Base(folder)
	err := filepath.Walk(folder, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(folder, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel != "." && excluded(rel) {
			debug("skipping excluded entry '%s'", rel)
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		var link string
		if info.Mode()&os.ModeSymlink != 0 {
			if link, err = os.Readlink(path); err != nil {
				return err
			}
		}
		hdr, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		if rel == "." {
			hdr.Name = base + "/"
		} else {
			hdr.Name = base + "/" + rel
			if info.IsDir() {
				hdr.Name += "/"
			}
		}
		if err = tw.WriteHeader(hdr); err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(tw, f)
		f.Close()
		return err
	})
	if err != nil {
		return err
	}

	if err = tw.Close(); err != nil {
		return errors.Wrap(err, "failed to finalize tar-stream")
	}
	return errors.Wrap(gz.Close(), "failed to finalize gzip stream")
}
