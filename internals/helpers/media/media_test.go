package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestConvertToWebP_Downscales(t *testing.T) {
	out, err := ConvertToWebP(bytes.NewReader(pngBytes(t, 400, 200)), WebPOptions{MaxW: 100, MaxH: 100, Quality: 70})
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestConvertToWebP_KeepsSmallImages(t *testing.T) {
	out, err := ConvertToWebP(bytes.NewReader(pngBytes(t, 40, 30)), WebPOptions{MaxW: 100, MaxH: 100})
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, 30, cfg.Height)
}

func TestConvertToWebP_RejectsText(t *testing.T) {
	_, err := ConvertToWebP(strings.NewReader("not an image at all"), DefaultWebPOptions())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = ConvertToWebP(bytes.NewReader(nil), DefaultWebPOptions())
	assert.Error(t, err)
}

func TestLocalStorage_PutDelete(t *testing.T) {
	dir := t.TempDir()
	st, err := NewLocalStorage(dir, "/media/")
	require.NoError(t, err)

	url, err := st.Put(context.Background(), "schools/sch-001/a.webp", []byte("x"), "image/webp")
	require.NoError(t, err)
	assert.Equal(t, "/media/schools/sch-001/a.webp", url)

	_, err = os.Stat(filepath.Join(dir, "schools", "sch-001", "a.webp"))
	require.NoError(t, err)

	require.NoError(t, st.Delete(context.Background(), "schools/sch-001/a.webp"))
	require.NoError(t, st.Delete(context.Background(), "schools/sch-001/a.webp"), "missing files are fine")

	_, err = st.Put(context.Background(), "../escape.webp", []byte("x"), "image/webp")
	assert.Error(t, err)
}

func TestBuildObjectKey(t *testing.T) {
	key := BuildObjectKey("/schools/sch-001/", "Fachada Principal.JPG", ".webp")
	assert.True(t, strings.HasPrefix(key, "schools/sch-001/fachada-principal_"), key)
	assert.True(t, strings.HasSuffix(key, ".webp"), key)

	key = BuildObjectKey("", "???.png", ".webp")
	assert.True(t, strings.HasPrefix(key, "file_"), key)
}
