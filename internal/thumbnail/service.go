package thumbnail

import (
	"bytes"
	"context"
	"image/color"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/saulo-duarte/mockprep/internal/config"
	"golang.org/x/sync/singleflight"
)

// Fetcher is the part of the transport client thumbnails need.
type Fetcher interface {
	FetchBlob(ctx context.Context, ref string) ([]byte, string, error)
}

type Image struct {
	Data        []byte
	ContentType string
	Placeholder bool
}

// Service resolves image references into small JPEGs. It never fails:
// anything that cannot be fetched or decoded becomes the placeholder, and
// no request slot is involved.
type Service interface {
	Get(ctx context.Context, ref string) Image
	Forget(ref string)
	Purge()
}

type thumbnailService struct {
	fetch Fetcher
	size  int

	mu     sync.RWMutex
	cache  map[string]Image
	group  singleflight.Group
	filler Image
}

func NewService(fetch Fetcher, size int) Service {
	if size <= 0 {
		size = 320
	}
	return &thumbnailService{
		fetch:  fetch,
		size:   size,
		cache:  make(map[string]Image),
		filler: placeholder(size),
	}
}

func (s *thumbnailService) Get(ctx context.Context, ref string) Image {
	if ref == "" {
		return s.filler
	}

	s.mu.RLock()
	img, ok := s.cache[ref]
	s.mu.RUnlock()
	if ok {
		return img
	}

	// Shared by every waiter; bounded by the client timeout, not the caller.
	loadCtx := context.WithoutCancel(ctx)
	v, _, _ := s.group.Do(ref, func() (any, error) {
		img, ok := s.load(loadCtx, ref)
		if ok {
			s.mu.Lock()
			s.cache[ref] = img
			s.mu.Unlock()
		}
		return img, nil
	})
	return v.(Image)
}

func (s *thumbnailService) load(ctx context.Context, ref string) (Image, bool) {
	log := config.WithContext(ctx).WithField("ref", ref)

	data, _, err := s.fetch.FetchBlob(ctx, ref)
	if err != nil {
		log.WithError(err).Debug("Thumbnail fetch failed, using placeholder")
		return s.filler, false
	}

	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		log.WithError(err).Debug("Thumbnail decode failed, using placeholder")
		return s.filler, false
	}

	var buf bytes.Buffer
	fitted := imaging.Fit(src, s.size, s.size, imaging.Lanczos)
	if err := imaging.Encode(&buf, fitted, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		log.WithError(err).Warn("Thumbnail encode failed, using placeholder")
		return s.filler, false
	}
	return Image{Data: buf.Bytes(), ContentType: "image/jpeg"}, true
}

func (s *thumbnailService) Forget(ref string) {
	s.mu.Lock()
	delete(s.cache, ref)
	s.mu.Unlock()
}

func (s *thumbnailService) Purge() {
	s.mu.Lock()
	s.cache = make(map[string]Image)
	s.mu.Unlock()
}

func placeholder(size int) Image {
	img := imaging.New(size, size*9/16, color.NRGBA{R: 226, G: 230, B: 236, A: 255})
	var buf bytes.Buffer
	_ = imaging.Encode(&buf, img, imaging.JPEG)
	return Image{Data: buf.Bytes(), ContentType: "image/jpeg", Placeholder: true}
}
