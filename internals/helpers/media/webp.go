// internals/helpers/media/webp.go
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"educa_backend/internals/configs"
)

var ErrUnsupportedFormat = errors.New("unsupported image format (use jpg/png/webp)")

// MaxUploadSize guards the controller before any decoding happens.
const MaxUploadSize = int64(5 * 1024 * 1024)

/* =======================================================================
   WebP options (env driven, overridable per call)
======================================================================= */

type WebPOptions struct {
	MaxW     int
	MaxH     int
	Quality  float32
	Lossless bool
}

func DefaultWebPOptions() WebPOptions {
	return WebPOptions{
		MaxW:    configs.GetInt("IMAGE_WEBP_MAX_W", 1600),
		MaxH:    configs.GetInt("IMAGE_WEBP_MAX_H", 1600),
		Quality: float32(configs.GetFloat("IMAGE_WEBP_QUALITY", 80)),
	}
}

/* =======================================================================
   Decode → downscale → encode
======================================================================= */

// ConvertToWebP reads a jpeg/png/webp stream, fits it inside MaxW×MaxH keeping the aspect
// ratio and re-encodes it as WebP.
func ConvertToWebP(r io.Reader, opts WebPOptions) ([]byte, error) {
	all, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	img, err := decodeImage(all)
	if err != nil {
		return nil, err
	}
	img = downscaleIfNeeded(img, opts.MaxW, opts.MaxH)
	return encodeToWebP(img, opts)
}

func decodeImage(all []byte) (image.Image, error) {
	if len(all) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)

	switch {
	case strings.Contains(ct, "webp"):
		return webp.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "jpeg"), strings.Contains(ct, "png"):
		return imaging.Decode(bytes.NewReader(all), imaging.AutoOrientation(true))
	}
	return nil, ErrUnsupportedFormat
}

func downscaleIfNeeded(src image.Image, maxW, maxH int) image.Image {
	if maxW <= 0 && maxH <= 0 {
		return src
	}
	b := src.Bounds()
	if (maxW <= 0 || b.Dx() <= maxW) && (maxH <= 0 || b.Dy() <= maxH) {
		return src
	}
	if maxW <= 0 {
		maxW = b.Dx()
	}
	if maxH <= 0 {
		maxH = b.Dy()
	}
	return imaging.Fit(src, maxW, maxH, imaging.CatmullRom)
}

func encodeToWebP(img image.Image, opt WebPOptions) ([]byte, error) {
	q := opt.Quality
	if q <= 0 {
		q = 80
	}
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: opt.Lossless, Quality: q}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}
