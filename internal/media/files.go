package media

import (
	"context"
	"errors"
	"net/http"
	"path"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/JaimeStill/mcp-endpoints/pkg/storage"
)

const (
	uploadsPrefix = "uploads"

	maxNameAttempts = 1000

	attachedFileKey = "_wp_attached_file"
	metadataKey     = "_wp_attachment_metadata"
	altKey          = "_wp_attachment_image_alt"
)

// allowedTypes maps permitted upload extensions to their MIME type.
var allowedTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"jpe":  "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"bmp":  "image/bmp",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"ico":  "image/x-icon",
	"pdf":  "application/pdf",
	"txt":  "text/plain",
	"csv":  "text/csv",
	"json": "application/json",
	"zip":  "application/zip",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"ppt":  "application/vnd.ms-powerpoint",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"odt":  "application/vnd.oasis.opendocument.text",
	"mp3":  "audio/mpeg",
	"m4a":  "audio/mp4",
	"ogg":  "audio/ogg",
	"wav":  "audio/wav",
	"mp4":  "video/mp4",
	"m4v":  "video/mp4",
	"mov":  "video/quicktime",
	"webm": "video/webm",
}

// imageTypes are the MIME types thumbnails can be generated for.
var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
	"image/tiff": true,
}

// IsImage reports whether intermediate sizes are generated for mimeType.
func IsImage(mimeType string) bool {
	return imageTypes[mimeType]
}

// DetectType returns the MIME type for filename. The extension decides the
// type; image extensions must also match the sniffed content.
func DetectType(filename string, data []byte) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	mimeType, ok := allowedTypes[ext]
	if !ok {
		return "", false
	}
	if IsImage(mimeType) && len(data) > 0 {
		sniffed := http.DetectContentType(data)
		if strings.HasPrefix(sniffed, "image/") && sniffed != mimeType {
			return sniffed, IsImage(sniffed)
		}
	}
	return mimeType, true
}

const unsafeFilenameChars = "?[]/\\=<>:;,'\"&$#*()|~`!{}%+’«»”“"

// SanitizeFilename strips characters that are unsafe in URLs and file systems,
// turns whitespace into dashes and trims leading and trailing punctuation.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))

	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsControl(r) || strings.ContainsRune(unsafeFilenameChars, r):
		case unicode.IsSpace(r):
			b.WriteByte('-')
		default:
			b.WriteRune(r)
		}
	}
	out := b.String()
	for strings.Contains(out, "--") {
		out = strings.ReplaceAll(out, "--", "-")
	}
	return strings.Trim(out, ".-_")
}

// NumberedName returns name with -n inserted before its extension.
func NumberedName(name string, n int) string {
	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext) + "-" + strconv.Itoa(n) + ext
}

// SizedName returns the file name of a w by h rendition of file, such as photo-150x150.jpg.
func SizedName(file string, w, h int, ext string) string {
	base := strings.TrimSuffix(path.Base(file), path.Ext(file))
	return base + "-" + strconv.Itoa(w) + "x" + strconv.Itoa(h) + ext
}

var sizedSuffix = regexp.MustCompile(`-[0-9]+x[0-9]+$`)

func stem(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}

// Reserve stores data under the uploads directory dir using name, or name
// numbered with -1, -2, ..., and returns the file name it took. A candidate is
// skipped when a stored file already uses it or looks like one of its
// renditions, so the renditions written later cannot land on another upload.
func Reserve(ctx context.Context, store storage.System, dir, name string, data []byte) (string, error) {
	children, err := store.Children(ctx, uploadKey(dir))
	if err != nil {
		return "", err
	}

	taken := make(map[string]bool, len(children))
	sized := map[string]bool{}
	for _, child := range children {
		taken[strings.ToLower(child)] = true
		s := stem(child)
		if loc := sizedSuffix.FindStringIndex(s); loc != nil {
			sized[strings.ToLower(s[:loc[0]])] = true
		}
	}

	for n := range maxNameAttempts {
		candidate := name
		if n > 0 {
			candidate = NumberedName(name, n)
		}
		if taken[strings.ToLower(candidate)] || sized[strings.ToLower(stem(candidate))] {
			continue
		}

		err := store.Create(ctx, uploadKey(path.Join(dir, candidate)), data)
		if errors.Is(err, storage.ErrExists) {
			continue
		}
		if err != nil {
			return "", err
		}
		return candidate, nil
	}
	return "", ErrFileExists.Withf("No free file name for %s", name)
}

// TitleFromFilename derives the default attachment title.
func TitleFromFilename(name string) string {
	title := strings.TrimSuffix(name, path.Ext(name))
	return strings.NewReplacer("-", " ", "_", " ").Replace(title)
}

func uploadKey(rel string) string {
	return uploadsPrefix + "/" + rel
}
