// Package imaging normalizes captured photos before upload: decode, downscale
// to a fixed width and re-encode as JPEG into the staging directory.
package imaging

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"io"
	"math"
	"path/filepath"
	"time"

	// decoders for camera and library formats
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/sayah-app/sayah-go/internal/errors"
	"github.com/sayah-app/sayah-go/internal/logger"
)

const (
	DefaultTargetWidth = 500
	DefaultQuality     = 0.8

	// FormatJPEG is the only output format.
	FormatJPEG = "jpeg"

	stagedExt       = ".jpg"
	stagingDirPerms = 0o700
	stagedFilePerms = 0o600

	// maxSourcePixels rejects decompression bombs before allocating the full frame
	maxSourcePixels = 100_000_000
)

// Options control normalization.
type Options struct {
	TargetWidth int     // output width; narrower sources are not upscaled
	Quality     float64 // JPEG quality in (0,1]
	StagingDir  string
}

// Normalized is an image ready for upload.
type Normalized struct {
	Path    string
	Width   int
	Height  int
	Format  string
	Quality float64
	Size    int64
}

// Normalizer writes normalized images into a staging directory.
type Normalizer struct {
	fs      afero.Fs
	opts    Options
	log     logger.Logger
	newName func() string
}

// NewNormalizer creates a Normalizer. Zero option fields take defaults.
func NewNormalizer(fs afero.Fs, opts Options) *Normalizer {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if opts.TargetWidth <= 0 {
		opts.TargetWidth = DefaultTargetWidth
	}
	if opts.Quality <= 0 || opts.Quality > 1 {
		opts.Quality = DefaultQuality
	}
	return &Normalizer{
		fs:      fs,
		opts:    opts,
		log:     logger.Global().Module("imaging"),
		newName: func() string { return uuid.NewString() + stagedExt },
	}
}

// Options returns the effective options.
func (n *Normalizer) Options() Options {
	return n.opts
}

// NormalizeFile normalizes the image at srcPath. srcPath is read through the
// normalizer's file system and is never modified.
func (n *Normalizer) NormalizeFile(ctx context.Context, srcPath string) (*Normalized, error) {
	f, err := n.fs.Open(srcPath)
	if err != nil {
		return nil, processingError(err, "open_source").
			FileContext(srcPath, 0).
			Build()
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			n.log.Debug("failed to close source image", logger.Error(cerr))
		}
	}()

	return n.Normalize(ctx, f)
}

// Normalize decodes r, downscales it to the target width preserving aspect
// ratio and writes a JPEG under a new unique name in the staging directory.
// Any decode, encode or write failure is reported as a processing error.
func (n *Normalizer) Normalize(ctx context.Context, r io.Reader) (*Normalized, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, processingError(err, "normalize").Build()
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, processingError(err, "read_source").Build()
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, processingError(err, "decode_config").Build()
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxSourcePixels {
		return nil, errors.Newf("unsupported image dimensions %dx%d", cfg.Width, cfg.Height).
			Component("imaging").
			Category(errors.CategoryProcessing).
			Context("operation", "decode_config").
			Context("source_format", format).
			Build()
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, processingError(err, "decode").
			Context("source_format", format).
			Build()
	}

	if err := ctx.Err(); err != nil {
		return nil, processingError(err, "normalize").Build()
	}

	dst := Resize(src, n.opts.TargetWidth)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: JPEGQuality(n.opts.Quality)}); err != nil {
		return nil, processingError(err, "encode").Build()
	}

	path, err := n.write(buf.Bytes())
	if err != nil {
		return nil, err
	}

	bounds := dst.Bounds()
	out := &Normalized{
		Path:    path,
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
		Format:  FormatJPEG,
		Quality: n.opts.Quality,
		Size:    int64(buf.Len()),
	}

	n.log.Debug("image normalized",
		logger.String("source_format", format),
		logger.Int("source_width", cfg.Width),
		logger.Int("source_height", cfg.Height),
		logger.Int("width", out.Width),
		logger.Int("height", out.Height),
		logger.Int64("bytes", out.Size),
		logger.Duration("duration", time.Since(start)))

	return out, nil
}

// Remove deletes a staged file. Missing files are ignored.
func (n *Normalizer) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := n.fs.Remove(path); err != nil {
		if exists, _ := afero.Exists(n.fs, path); !exists {
			return nil
		}
		return errors.New(err).
			Component("imaging").
			Category(errors.CategoryFileIO).
			FileContext(path, 0).
			Context("operation", "remove_staged").
			Build()
	}
	return nil
}

// Open opens a staged file for reading.
func (n *Normalizer) Open(path string) (io.ReadCloser, error) {
	f, err := n.fs.Open(path)
	if err != nil {
		return nil, processingError(err, "open_staged").FileContext(path, 0).Build()
	}
	return f, nil
}

func (n *Normalizer) write(data []byte) (string, error) {
	if err := n.fs.MkdirAll(n.opts.StagingDir, stagingDirPerms); err != nil {
		return "", processingError(err, "create_staging_dir").
			FileContext(n.opts.StagingDir, 0).
			Build()
	}

	path := filepath.Join(n.opts.StagingDir, n.newName())
	if err := afero.WriteFile(n.fs, path, data, stagedFilePerms); err != nil {
		_ = n.fs.Remove(path)
		return "", processingError(err, "write_staged").
			FileContext(path, int64(len(data))).
			Build()
	}
	return path, nil
}

// Resize scales src to width preserving aspect ratio. Images already at or
// below width are returned as an RGBA copy at their original size.
func Resize(src image.Image, width int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	if width <= 0 || w <= width {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		return dst
	}

	height := max(1, int(math.Round(float64(h)*float64(width)/float64(w))))
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// JPEGQuality maps a quality in (0,1] onto the 1-100 JPEG scale.
func JPEGQuality(q float64) int {
	return min(100, max(1, int(math.Round(q*100))))
}

func processingError(err error, operation string) *errors.ErrorBuilder {
	return errors.New(err).
		Component("imaging").
		Category(errors.CategoryProcessing).
		Context("operation", operation)
}
