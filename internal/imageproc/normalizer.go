package imageproc

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"image"
	"log"

	"github.com/disintegration/imaging"
	lru "github.com/hashicorp/golang-lru/v2"

	"veridoc/internal/config"
	"veridoc/internal/domain"
)

// Normalizer converts raw image bytes into a bounded-size, re-oriented,
// JPEG-compressed NormalizedImage. Results are cached by MD5 content hash in a
// fixed-capacity LRU; entries are immutable once inserted, so concurrent reads
// are safe. The cache is owned by the Normalizer instance, never shared
// module-wide.
type Normalizer struct {
	cfg   config.ImageConfig
	cache *lru.Cache[string, *domain.NormalizedImage]
}

// NewNormalizer creates a Normalizer with its own bounded cache.
func NewNormalizer(cfg config.ImageConfig) (*Normalizer, error) {
	size := cfg.CacheSize
	if size <= 0 {
		size = 50
	}
	cache, err := lru.New[string, *domain.NormalizedImage](size)
	if err != nil {
		return nil, fmt.Errorf("creating image cache: %w", err)
	}
	return &Normalizer{cfg: cfg, cache: cache}, nil
}

// Normalize decodes, re-orients, resizes, and re-encodes the given image
// bytes. The same input bytes always yield bit-identical output; repeat calls
// are served from the cache without touching the codec.
func (n *Normalizer) Normalize(ctx context.Context, data []byte) (*domain.NormalizedImage, error) {
	return n.normalize(ctx, data, n.cfg.BoundingBox, n.cfg.Quality)
}

// NormalizeTo is Normalize with a call-site override for the resize box and
// JPEG quality. Overridden results share the same cache identity rules.
func (n *Normalizer) NormalizeTo(ctx context.Context, data []byte, box, quality int) (*domain.NormalizedImage, error) {
	return n.normalize(ctx, data, box, quality)
}

func (n *Normalizer) normalize(ctx context.Context, data []byte, box, quality int) (*domain.NormalizedImage, error) {
	hash := contentHash(data)
	cacheKey := fmt.Sprintf("%s/%d/%d", hash, box, quality)
	if cached, ok := n.cache.Get(cacheKey); ok {
		return cached, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Cheap metadata pass before full decode: reject absent or oversize
	// dimensions without paying for pixel decoding.
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImageDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: missing dimensions", domain.ErrImageDecode)
	}
	if cfg.Width > n.cfg.MaxDimension || cfg.Height > n.cfg.MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d exceeds %dpx",
			domain.ErrImageTooLarge, cfg.Width, cfg.Height, n.cfg.MaxDimension)
	}

	// Full decode with EXIF orientation correction.
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImageDecode, err)
	}

	// Fit within the bounding box preserving aspect ratio; never upscale.
	bounds := img.Bounds()
	if bounds.Dx() > box || bounds.Dy() > box {
		img = imaging.Fit(img, box, box, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encoding jpeg: %w", err)
	}

	out := &domain.NormalizedImage{
		Bytes:    buf.Bytes(),
		Width:    img.Bounds().Dx(),
		Height:   img.Bounds().Dy(),
		Format:   format,
		Size:     buf.Len(),
		Hash:     hash,
		Oversize: buf.Len() > n.cfg.MaxEncodedMB*1024*1024,
	}
	if out.Oversize {
		log.Printf("imageproc.Normalize: buffer still %d bytes after compression (hash %s)", out.Size, hash)
	}

	n.cache.Add(cacheKey, out)
	return out, nil
}

// Thumbnail derives a small preview from an already-normalized buffer. It is a
// pure downstream transform and is not cached.
func (n *Normalizer) Thumbnail(img *domain.NormalizedImage) ([]byte, error) {
	decoded, err := imaging.Decode(bytes.NewReader(img.Bytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImageDecode, err)
	}
	thumb := imaging.Fit(decoded, n.cfg.ThumbSize, n.cfg.ThumbSize, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(n.cfg.ThumbQuality)); err != nil {
		return nil, fmt.Errorf("encoding thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// CacheLen reports the number of cached normalized images.
func (n *Normalizer) CacheLen() int {
	return n.cache.Len()
}

func contentHash(data []byte) string {
	// MD5 is fine here: this is a cache key, not a security boundary.
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}
