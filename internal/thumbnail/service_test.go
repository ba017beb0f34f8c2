package thumbnail_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/saulo-duarte/mockprep/internal/thumbnail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	mu    sync.Mutex
	calls map[string]int
	blobs map[string][]byte
}

func (f *stubFetcher) FetchBlob(ctx context.Context, ref string) ([]byte, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[ref]++
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	data, ok := f.blobs[ref]
	if !ok {
		return nil, "", errors.New("not found")
	}
	return data, "image/png", nil
}

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestThumbnail(t *testing.T) {
	f := &stubFetcher{
		calls: map[string]int{},
		blobs: map[string][]byte{
			"/uploads/wide.png": pngOf(t, 1600, 800),
			"/uploads/junk.png": []byte("not an image"),
		},
	}
	svc := thumbnail.NewService(f, 200)
	ctx := context.Background()

	img := svc.Get(ctx, "/uploads/wide.png")
	require.False(t, img.Placeholder)
	assert.Equal(t, "image/jpeg", img.ContentType)

	decoded, _, err := image.Decode(bytes.NewReader(img.Data))
	require.NoError(t, err)
	assert.Equal(t, 200, decoded.Bounds().Dx())
	assert.Equal(t, 100, decoded.Bounds().Dy())

	svc.Get(ctx, "/uploads/wide.png")
	assert.Equal(t, 1, f.calls["/uploads/wide.png"])

	for _, ref := range []string{"/uploads/junk.png", "/uploads/missing.png", ""} {
		got := svc.Get(ctx, ref)
		assert.True(t, got.Placeholder, ref)
		assert.NotEmpty(t, got.Data, ref)
	}

	svc.Get(ctx, "/uploads/missing.png")
	assert.Equal(t, 2, f.calls["/uploads/missing.png"])

	svc.Purge()
	svc.Get(ctx, "/uploads/wide.png")
	assert.Equal(t, 2, f.calls["/uploads/wide.png"])
}

func TestThumbnailHandler(t *testing.T) {
	h := thumbnail.NewHandler(thumbnail.NewService(&stubFetcher{calls: map[string]int{}}, 0))

	rec := httptest.NewRecorder()
	h.GetThumbnail(rec, httptest.NewRequest(http.MethodGet, "/?ref=/uploads/x.png", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "true", rec.Header().Get("X-Thumbnail-Placeholder"))
}

func TestThumbnailOutlivesCancelledCaller(t *testing.T) {
	f := &stubFetcher{
		calls: map[string]int{},
		blobs: map[string][]byte{"/uploads/cover.png": pngOf(t, 400, 400)},
	}
	svc := thumbnail.NewService(f, 100)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	img := svc.Get(ctx, "/uploads/cover.png")
	assert.False(t, img.Placeholder)
	assert.Equal(t, 1, f.calls["/uploads/cover.png"])
}

func TestThumbnailHandlerRefresh(t *testing.T) {
	f := &stubFetcher{
		calls: map[string]int{},
		blobs: map[string][]byte{"/uploads/cover.png": pngOf(t, 300, 300)},
	}
	h := thumbnail.NewHandler(thumbnail.NewService(f, 100))

	for _, target := range []string{
		"/?ref=/uploads/cover.png",
		"/?ref=/uploads/cover.png",
		"/?ref=/uploads/cover.png&refresh=true",
	} {
		rec := httptest.NewRecorder()
		h.GetThumbnail(rec, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "false", rec.Header().Get("X-Thumbnail-Placeholder"))
	}
	assert.Equal(t, 2, f.calls["/uploads/cover.png"])
}
