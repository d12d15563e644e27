package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"path"
	"runtime"
	"sort"
	"sync"

	"github.com/JaimeStill/mcp-endpoints/internal/registry"
	"github.com/JaimeStill/mcp-endpoints/pkg/storage"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const jpegQuality = 82

// Thumbnailer renders the registered intermediate image sizes.
type Thumbnailer struct {
	store  storage.System
	sizes  []registry.ImageSize
	logger *slog.Logger
}

func NewThumbnailer(store storage.System, sizes []registry.ImageSize, logger *slog.Logger) *Thumbnailer {
	return &Thumbnailer{
		store:  store,
		sizes:  sizes,
		logger: logger.With("system", "thumbnails"),
	}
}

// rendition is one output file. Sizes that resolve to the same dimensions
// share a rendition.
type rendition struct {
	file  string
	dst   image.Point
	src   image.Rectangle
	names []string
}

type renditionResult struct {
	rendition *rendition
	meta      SizeMeta
	err       error
}

type encoding struct {
	ext      string
	mimeType string
	encode   func(io.Writer, image.Image) error
}

// encodingFor keeps the source format where it can be written and falls back to PNG.
func encodingFor(format, original string) encoding {
	switch format {
	case "jpeg":
		return encoding{path.Ext(original), "image/jpeg", func(w io.Writer, m image.Image) error {
			return jpeg.Encode(w, m, &jpeg.Options{Quality: jpegQuality})
		}}
	case "gif":
		return encoding{path.Ext(original), "image/gif", func(w io.Writer, m image.Image) error {
			return gif.Encode(w, m, nil)
		}}
	case "bmp":
		return encoding{path.Ext(original), "image/bmp", bmp.Encode}
	case "tiff":
		return encoding{path.Ext(original), "image/tiff", func(w io.Writer, m image.Image) error {
			return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
		}}
	case "png":
		return encoding{path.Ext(original), "image/png", png.Encode}
	default:
		return encoding{".png", "image/png", png.Encode}
	}
}

// Generate decodes data, writes every rendition smaller than the original next
// to rel and returns the attachment metadata. Existing files are never
// overwritten: a rendition whose name is taken fails with ErrFileExists.
func (t *Thumbnailer) Generate(ctx context.Context, rel string, data []byte) (*Metadata, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImage.Wrap(err)
	}

	bounds := img.Bounds()
	meta := &Metadata{
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		File:     rel,
		Filesize: int64(len(data)),
		Sizes:    map[string]SizeMeta{},
	}

	enc := encodingFor(format, rel)
	plan := t.plan(meta.Width, meta.Height, rel, enc.ext)
	if len(plan) == 0 {
		return meta, nil
	}

	tasks := make(chan *rendition, len(plan))
	results := make(chan renditionResult, len(plan))

	var wg sync.WaitGroup
	for range workerCount(len(plan)) {
		wg.Go(func() {
			t.renderWorker(ctx, img, rel, enc, tasks, results)
		})
	}

	for _, r := range plan {
		tasks <- r
	}
	close(tasks)

	go func() {
		wg.Wait()
		close(results)
	}()

	var firstErr error
	written := []string{}
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		written = append(written, res.meta.File)
		for _, name := range res.rendition.names {
			meta.Sizes[name] = res.meta
		}
	}

	if firstErr != nil {
		for _, file := range written {
			if err := t.store.Delete(ctx, uploadKey(path.Join(path.Dir(rel), file))); err != nil {
				t.logger.Warn("failed to remove rendition", "file", file, "error", err)
			}
		}
		return nil, firstErr
	}

	t.logger.Info("renditions generated", "file", rel, "format", format, "sizes", len(meta.Sizes))
	return meta, nil
}

func (t *Thumbnailer) plan(w, h int, rel, ext string) []*rendition {
	byFile := map[string]*rendition{}
	for _, size := range t.sizes {
		dst, src, ok := ResizeDimensions(w, h, size)
		if !ok {
			continue
		}
		file := SizedName(rel, dst.X, dst.Y, ext)
		if r, ok := byFile[file]; ok {
			r.names = append(r.names, size.Name)
			continue
		}
		byFile[file] = &rendition{file: file, dst: dst, src: src, names: []string{size.Name}}
	}

	out := make([]*rendition, 0, len(byFile))
	for _, r := range byFile {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].file < out[j].file })
	return out
}

func (t *Thumbnailer) renderWorker(
	ctx context.Context,
	img image.Image,
	rel string,
	enc encoding,
	tasks <-chan *rendition,
	results chan<- renditionResult,
) {
	for r := range tasks {
		select {
		case <-ctx.Done():
			results <- renditionResult{rendition: r, err: ctx.Err()}
			continue
		default:
		}

		meta, err := t.render(ctx, img, rel, enc, r)
		results <- renditionResult{rendition: r, meta: meta, err: err}
	}
}

func (t *Thumbnailer) render(ctx context.Context, img image.Image, rel string, enc encoding, r *rendition) (SizeMeta, error) {
	dst := image.NewRGBA(image.Rect(0, 0, r.dst.X, r.dst.Y))
	src := r.src.Add(img.Bounds().Min)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)

	var buf bytes.Buffer
	if err := enc.encode(&buf, dst); err != nil {
		return SizeMeta{}, fmt.Errorf("encode %s: %w", r.file, err)
	}

	key := uploadKey(path.Join(path.Dir(rel), r.file))
	if err := t.store.Create(ctx, key, buf.Bytes()); err != nil {
		if errors.Is(err, storage.ErrExists) {
			return SizeMeta{}, ErrFileExists.Withf("Rendition %s already exists", r.file)
		}
		return SizeMeta{}, fmt.Errorf("store %s: %w", r.file, err)
	}

	return SizeMeta{
		File:     r.file,
		Width:    r.dst.X,
		Height:   r.dst.Y,
		MimeType: enc.mimeType,
		Filesize: int64(buf.Len()),
	}, nil
}

func workerCount(jobs int) int {
	return max(min(runtime.NumCPU(), jobs), 1)
}
