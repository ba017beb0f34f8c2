package profile

import "github.com/saulo-duarte/mockprep/internal/transport"

const (
	SlotGet    = "profile.get"
	SlotUpdate = "profile.update"
)

type ProfileInput struct {
	Name   string          `validate:"omitempty,min=2,max=80"`
	Phone  string          `validate:"omitempty,e164|numeric"`
	Avatar *transport.File `validate:"-"`
}

func (in ProfileInput) form() transport.Form {
	f := transport.Form{Fields: map[string]string{}}
	if in.Name != "" {
		f.Fields["name"] = in.Name
	}
	if in.Phone != "" {
		f.Fields["phone"] = in.Phone
	}
	if in.Avatar != nil {
		a := *in.Avatar
		a.Field = "avatar"
		f.Files = append(f.Files, a)
	}
	return f
}

func (in ProfileInput) empty() bool {
	return in.Name == "" && in.Phone == "" && in.Avatar == nil
}
