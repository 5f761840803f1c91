package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"path"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"

	"portfolio-digital/internal/domain"
)

var allowedTypes = []string{"image/png", "image/jpeg", "image/gif"}

// defaultMaxPixels 解码前按声明尺寸拦截，避免小文件撑爆内存
const defaultMaxPixels = 40_000_000

// Images 上传管线：嗅探类型 → 校验尺寸 → 解码 → 透明背景铺白 → 等比缩放 → JPEG
type Images struct {
	Blobs     BlobStore
	MaxBytes  int64
	MaxSide   int
	Quality   int
	MaxPixels int // 宽×高上限；<=0 用默认值
}

func (im *Images) SaveImage(ctx context.Context, folder, filename string, r io.Reader) (string, error) {
	limit := im.MaxBytes
	if limit <= 0 {
		limit = 16 << 20
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return "", domain.Invalid("image larger than %d bytes", limit)
	}
	if mt := mimetype.Detect(data); !mimetype.EqualsAny(mt.String(), allowedTypes...) {
		return "", domain.Invalid("unsupported image type %s", mt.String())
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", domain.Invalid("cannot decode image")
	}
	maxPx := im.MaxPixels
	if maxPx <= 0 {
		maxPx = defaultMaxPixels
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(maxPx) {
		return "", domain.Invalid("image is %dx%d, at most %d pixels allowed", cfg.Width, cfg.Height, maxPx)
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", domain.Invalid("cannot decode image")
	}

	q := im.Quality
	if q <= 0 || q > 100 {
		q = 85
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, Normalize(src, im.MaxSide), &jpeg.Options{Quality: q}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}

	key := path.Join(folder, UniqueName(filename))
	if err := im.Blobs.Put(ctx, key, buf.Bytes(), "image/jpeg"); err != nil {
		return "", fmt.Errorf("store %s: %w: %w", key, domain.ErrStorage, err)
	}
	return key, nil
}

func (im *Images) Delete(ctx context.Context, key string) error {
	return im.Blobs.Delete(ctx, key)
}

// Normalize 白底合成并把最长边压到 maxSide 以内；maxSide<=0 不缩放
func Normalize(src image.Image, maxSide int) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSide > 0 && (w > maxSide || h > maxSide) {
		if w >= h {
			h = max(1, h*maxSide/w)
			w = maxSide
		} else {
			w = max(1, w*maxSide/h)
			h = maxSide
		}
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, xdraw.Src)
	if w == b.Dx() && h == b.Dy() {
		xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Over)
	} else {
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	}
	return dst
}

// UniqueName safe_name_<8位十六进制>.jpg
func UniqueName(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	safe := strings.Trim(strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, base), "_")
	if safe == "" {
		safe = "image"
	}
	return fmt.Sprintf("%s_%s.jpg", safe, strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
