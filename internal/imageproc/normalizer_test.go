package imageproc_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veridoc/internal/config"
	"veridoc/internal/domain"
	"veridoc/internal/imageproc"
)

func testConfig() config.ImageConfig {
	return config.ImageConfig{
		MaxDimension: 1000,
		BoundingBox:  200,
		Quality:      80,
		ThumbSize:    50,
		ThumbQuality: 55,
		CacheSize:    10,
		MaxEncodedMB: 2,
	}
}

// encodeImage renders a flat-color image as JPEG or PNG bytes.
func encodeImage(t *testing.T, w, h int, format imaging.Format) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 120, G: 140, B: 160, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, format))
	return buf.Bytes()
}

func newNormalizer(t *testing.T, cfg config.ImageConfig) *imageproc.Normalizer {
	t.Helper()
	n, err := imageproc.NewNormalizer(cfg)
	require.NoError(t, err)
	return n
}

func TestNormalize_ResizesToBoundingBox(t *testing.T) {
	n := newNormalizer(t, testConfig())
	data := encodeImage(t, 800, 400, imaging.JPEG)

	out, err := n.Normalize(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, 200, out.Width)
	assert.Equal(t, 100, out.Height)
	assert.Equal(t, "jpeg", out.Format)
	assert.NotEmpty(t, out.Hash)
	assert.False(t, out.Oversize)

	// Output is decodable JPEG.
	decoded, format, err := image.Decode(bytes.NewReader(out.Bytes))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 200, decoded.Bounds().Dx())
}

func TestNormalize_NeverUpscales(t *testing.T) {
	n := newNormalizer(t, testConfig())
	data := encodeImage(t, 80, 60, imaging.JPEG)

	out, err := n.Normalize(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, 80, out.Width)
	assert.Equal(t, 60, out.Height)
}

func TestNormalize_PNGInput(t *testing.T) {
	n := newNormalizer(t, testConfig())
	data := encodeImage(t, 400, 400, imaging.PNG)

	out, err := n.Normalize(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, "png", out.Format)
	// Re-encoded as JPEG regardless of source format.
	_, format, err := image.Decode(bytes.NewReader(out.Bytes))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestNormalize_IdempotentAndCached(t *testing.T) {
	n := newNormalizer(t, testConfig())
	data := encodeImage(t, 800, 400, imaging.JPEG)

	first, err := n.Normalize(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, 1, n.CacheLen())

	second, err := n.Normalize(context.Background(), data)
	require.NoError(t, err)

	// Bit-identical output, served from cache.
	assert.Equal(t, first.Bytes, second.Bytes)
	assert.Equal(t, first.Hash, second.Hash)
	assert.Equal(t, 1, n.CacheLen())
}

func TestNormalizeTo_DistinctCacheIdentity(t *testing.T) {
	n := newNormalizer(t, testConfig())
	data := encodeImage(t, 800, 400, imaging.JPEG)

	_, err := n.Normalize(context.Background(), data)
	require.NoError(t, err)
	_, err = n.NormalizeTo(context.Background(), data, 100, 60)
	require.NoError(t, err)

	assert.Equal(t, 2, n.CacheLen())
}

func TestNormalize_RejectsOversizeDimensions(t *testing.T) {
	cfg := testConfig()
	cfg.MaxDimension = 100
	n := newNormalizer(t, cfg)
	data := encodeImage(t, 150, 50, imaging.JPEG)

	out, err := n.Normalize(context.Background(), data)
	assert.Nil(t, out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrImageTooLarge))
}

func TestNormalize_RejectsUndecodableBytes(t *testing.T) {
	n := newNormalizer(t, testConfig())

	out, err := n.Normalize(context.Background(), []byte("definitely not an image"))
	assert.Nil(t, out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrImageDecode))
}

func TestNormalize_CancelledContext(t *testing.T) {
	n := newNormalizer(t, testConfig())
	data := encodeImage(t, 800, 400, imaging.JPEG)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := n.Normalize(ctx, data)
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestThumbnail(t *testing.T) {
	n := newNormalizer(t, testConfig())
	data := encodeImage(t, 800, 400, imaging.JPEG)

	out, err := n.Normalize(context.Background(), data)
	require.NoError(t, err)

	thumb, err := n.Thumbnail(out)
	require.NoError(t, err)

	decoded, _, err := image.Decode(bytes.NewReader(thumb))
	require.NoError(t, err)
	assert.LessOrEqual(t, decoded.Bounds().Dx(), 50)
	assert.LessOrEqual(t, decoded.Bounds().Dy(), 50)
}
