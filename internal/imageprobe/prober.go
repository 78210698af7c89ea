package imageprobe

import (
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/flexprice/invoicer/internal/cache"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// headerSize is the number of bytes filetype needs to sniff any known format
const headerSize = 261

// Dimensions is the pixel size of an image
type Dimensions struct {
	Width  int
	Height int
}

// Prober reads the pixel dimensions of an image file
type Prober interface {
	Probe(ctx context.Context, path string) (Dimensions, error)
}

// FileProber sniffs the file type with filetype and reads the image header.
// Results are cached per path, size and modification time.
type FileProber struct {
	cache  cache.Cache
	logger *logger.Logger
}

func NewFileProber(c cache.Cache, log *logger.Logger) *FileProber {
	return &FileProber{cache: c, logger: log}
}

// Probe implements Prober
func (p *FileProber) Probe(ctx context.Context, path string) (Dimensions, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Dimensions{}, errors.Wrapf(err, "stat image %s", path)
	}

	key := cache.GenerateKey(cache.PrefixLogoDimensions, path, info.Size(), info.ModTime().UnixNano())
	if p.cache != nil {
		if cached, ok := p.cache.Get(ctx, key); ok {
			if dims, ok := cached.(Dimensions); ok {
				return dims, nil
			}
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return Dimensions{}, errors.Wrapf(err, "open image %s", path)
	}
	defer f.Close()

	head := make([]byte, headerSize)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return Dimensions{}, errors.Wrapf(err, "read image header %s", path)
	}
	head = head[:n]

	if !filetype.IsImage(head) {
		return Dimensions{}, errors.Newf("%s is not a supported image", path)
	}
	kind, _ := filetype.Match(head)

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return Dimensions{}, errors.Wrapf(err, "rewind image %s", path)
	}

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Dimensions{}, errors.Wrapf(err, "decode %s image %s", kind.Extension, path)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Dimensions{}, errors.Newf("image %s has no size", path)
	}

	dims := Dimensions{Width: cfg.Width, Height: cfg.Height}
	if p.logger != nil {
		p.logger.Debugw("probed image", "path", path, "format", format, "width", dims.Width, "height", dims.Height)
	}
	if p.cache != nil {
		p.cache.Set(ctx, key, dims, 0)
	}
	return dims, nil
}
