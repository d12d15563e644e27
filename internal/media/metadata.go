package media

import (
	"image"
	"math"
	"path"

	"github.com/JaimeStill/mcp-endpoints/internal/registry"
)

// SizeMeta describes one generated rendition. File is relative to the
// directory of the original.
type SizeMeta struct {
	File     string `json:"file"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	MimeType string `json:"mime-type"`
	Filesize int64  `json:"filesize"`
}

// Metadata is the value of _wp_attachment_metadata.
type Metadata struct {
	Width     int                 `json:"width,omitempty"`
	Height    int                 `json:"height,omitempty"`
	File      string              `json:"file"`
	Filesize  int64               `json:"filesize"`
	Sizes     map[string]SizeMeta `json:"sizes,omitempty"`
	PageCount *int                `json:"page_count,omitempty"`
}

// sizeKeys returns the storage keys of every generated rendition.
func (m *Metadata) sizeKeys() []string {
	dir := path.Dir(m.File)
	seen := map[string]bool{}
	keys := []string{}
	for _, s := range m.Sizes {
		key := uploadKey(path.Join(dir, s.File))
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

// ResizeDimensions returns the output size and the source rectangle for
// rendering an origW by origH image at size. It reports false when the
// rendition would not be smaller than the original.
func ResizeDimensions(origW, origH int, size registry.ImageSize) (image.Point, image.Rectangle, bool) {
	src := image.Rect(0, 0, origW, origH)
	if origW <= 0 || origH <= 0 || (size.Width <= 0 && size.Height <= 0) {
		return image.Point{}, src, false
	}

	var w, h int
	if size.Crop {
		aspect := float64(origW) / float64(origH)
		w, h = min(size.Width, origW), min(size.Height, origH)
		if size.Width <= 0 {
			w = int(float64(h) * aspect)
		}
		if size.Height <= 0 {
			h = int(float64(w) / aspect)
		}

		ratio := math.Max(float64(w)/float64(origW), float64(h)/float64(origH))
		cropW := int(math.Round(float64(w) / ratio))
		cropH := int(math.Round(float64(h) / ratio))
		x, y := (origW-cropW)/2, (origH-cropH)/2
		src = image.Rect(x, y, x+cropW, y+cropH)
	} else {
		w, h = constrain(origW, origH, size.Width, size.Height)
	}

	if w < 1 || h < 1 || (w >= origW && h >= origH) {
		return image.Point{}, src, false
	}
	return image.Pt(w, h), src, true
}

// constrain scales w by h to fit within maxW by maxH keeping the aspect
// ratio. A zero bound leaves that dimension free.
func constrain(w, h, maxW, maxH int) (int, int) {
	ratio := 1.0
	if maxW > 0 && w > maxW {
		ratio = float64(maxW) / float64(w)
	}
	if maxH > 0 && h > maxH {
		ratio = math.Min(ratio, float64(maxH)/float64(h))
	}
	return max(1, int(math.Round(float64(w)*ratio))), max(1, int(math.Round(float64(h)*ratio)))
}
