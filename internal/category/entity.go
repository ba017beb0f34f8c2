package category

import (
	"github.com/saulo-duarte/mockprep/internal/model"
	"github.com/saulo-duarte/mockprep/internal/transport"
)

const (
	SlotList   = "categories.list"
	SlotCreate = "categories.create"
	SlotUpdate = "categories.update"
	SlotDelete = "categories.delete"
)

type CategoryInput struct {
	Name  string          `validate:"required,min=2,max=80"`
	Image *transport.File `validate:"-"`
}

func (in CategoryInput) form() transport.Form {
	f := transport.Form{Fields: map[string]string{"name": in.Name}}
	if in.Image != nil {
		img := *in.Image
		img.Field = "image"
		f.Files = append(f.Files, img)
	}
	return f
}

type categoryResponse struct {
	Category model.Category `json:"category"`
}
