package upgrader

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
)

// File is one regular file extracted from a package.
type File struct {
	Path string
	Data []byte
}

// Unpack reads a zip archive and returns its regular files with paths relative to
// the archive root plus the single top-level directory, when there is exactly one.
// Entries escaping the archive root or exceeding maxBytes in total are rejected.
func Unpack(data []byte, maxBytes int64) ([]File, string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, "", ErrIncompatibleArchive.Wrap(err)
	}

	files := make([]File, 0, len(zr.File))
	tops := make(map[string]struct{})
	var total int64

	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, `\`, "/")
		clean := path.Clean(name)
		if clean == "." || strings.HasPrefix(clean, "../") || clean == ".." || path.IsAbs(clean) {
			return nil, "", ErrIncompatibleArchive.Withf("The package contains an unsafe path: %s", f.Name)
		}
		if strings.HasPrefix(clean, "__MACOSX/") {
			continue
		}

		top, _, _ := strings.Cut(clean, "/")
		tops[top] = struct{}{}

		if f.FileInfo().IsDir() {
			continue
		}

		total += int64(f.UncompressedSize64)
		if maxBytes > 0 && total > maxBytes {
			return nil, "", ErrIncompatibleArchive.Withf("The package exceeds the maximum unpacked size.")
		}

		rc, err := f.Open()
		if err != nil {
			return nil, "", ErrIncompatibleArchive.Wrap(err)
		}
		content, err := io.ReadAll(io.LimitReader(rc, int64(f.UncompressedSize64)+1))
		rc.Close()
		if err != nil {
			return nil, "", ErrIncompatibleArchive.Wrap(fmt.Errorf("read %s: %w", f.Name, err))
		}

		files = append(files, File{Path: clean, Data: content})
	}

	if len(files) == 0 {
		return nil, "", ErrIncompatibleArchive.Withf("The package contains no files.")
	}

	var root string
	if len(tops) == 1 {
		for t := range tops {
			root = t
		}
		for _, f := range files {
			if f.Path == root {
				root = ""
				break
			}
		}
	}
	return files, root, nil
}
