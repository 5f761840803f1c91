package storage

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-digital/internal/domain"
)

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func exists(l *Local, key string) bool {
	ok, _ := afero.Exists(l.fs, key)
	return ok
}

// pngHeader 只有签名与 IHDR 的 PNG，声明任意尺寸
func pngHeader(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], w)
	binary.BigEndian.PutUint32(ihdr[4:], h)
	ihdr[8], ihdr[9] = 8, 6 // 8 位 RGBA
	chunk := append([]byte("IHDR"), ihdr...)
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	buf.Write(make([]byte, 64))
	return buf.Bytes()
}

func newImages() (*Images, *Local) {
	local := NewLocalFs(afero.NewMemMapFs())
	return &Images{Blobs: local, MaxBytes: 1 << 20, MaxSide: 1200, Quality: 85}, local
}

func TestUniqueName(t *testing.T) {
	re := regexp.MustCompile(`^[A-Za-z0-9_-]+_[0-9a-f]{8}\.jpg$`)
	for _, in := range []string{"My Photo.PNG", "../../etc/passwd", "日本.gif", ""} {
		got := UniqueName(in)
		assert.Regexp(t, re, got, in)
	}
	assert.True(t, strings.HasPrefix(UniqueName("My Photo.PNG"), "My_Photo_"))
	assert.True(t, strings.HasPrefix(UniqueName("日本.gif"), "image_"))
	assert.NotEqual(t, UniqueName("a.png"), UniqueName("a.png"))
}

func TestNormalize_DownscalesLongestSide(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2400, 600))
	out := Normalize(src, 1200)
	assert.Equal(t, 1200, out.Bounds().Dx())
	assert.Equal(t, 300, out.Bounds().Dy())

	tall := Normalize(image.NewRGBA(image.Rect(0, 0, 300, 1500)), 1200)
	assert.Equal(t, 240, tall.Bounds().Dx())
	assert.Equal(t, 1200, tall.Bounds().Dy())

	small := Normalize(image.NewRGBA(image.Rect(0, 0, 40, 30)), 1200)
	assert.Equal(t, image.Rect(0, 0, 40, 30), small.Bounds())
}

func TestNormalize_FlattensAlphaOnWhite(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	out := Normalize(src, 0)
	r, g, b, a := out.At(0, 0).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff, 0xffff}, []uint32{r, g, b, a})
}

func TestImages_SaveImage(t *testing.T) {
	im, local := newImages()
	ctx := context.Background()

	key, err := im.SaveImage(ctx, "projects", "shot.png", bytes.NewReader(pngBytes(t, 10, 10, color.NRGBA{R: 255, A: 255})))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "projects/shot_"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.True(t, exists(local, key))

	data, err := afero.ReadFile(local.fs, key)
	require.NoError(t, err)
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Width)

	require.NoError(t, im.Delete(ctx, key))
	assert.False(t, exists(local, key))
	assert.NoError(t, im.Delete(ctx, key), "deleting a missing blob is not an error")
}

func TestImages_Rejects(t *testing.T) {
	im, _ := newImages()
	ctx := context.Background()

	_, err := im.SaveImage(ctx, "projects", "doc.png", strings.NewReader("%PDF-1.4 not an image"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = im.SaveImage(ctx, "projects", "huge.png", bytes.NewReader(pngHeader(50000, 50000)))
	assert.ErrorIs(t, err, domain.ErrValidation, "declared size is checked before decoding")

	im.MaxPixels = 100
	_, err = im.SaveImage(ctx, "projects", "wide.png", bytes.NewReader(pngBytes(t, 20, 20, color.Black)))
	assert.ErrorIs(t, err, domain.ErrValidation)

	im.MaxBytes = 16
	_, err = im.SaveImage(ctx, "projects", "big.png", bytes.NewReader(pngBytes(t, 50, 50, color.Black)))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCleanKey(t *testing.T) {
	k, err := cleanKey("../../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, "etc/passwd", k)
	_, err = cleanKey("/")
	assert.Error(t, err)
}
