package thumbnail

type ThumbnailContainer struct {
	Service Service
	Handler *Handler
}

func NewThumbnailContainer(fetch Fetcher, size int) *ThumbnailContainer {
	service := NewService(fetch, size)

	return &ThumbnailContainer{
		Service: service,
		Handler: NewHandler(service),
	}
}
