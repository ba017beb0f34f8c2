package model

import (
	"bytes"
	"encoding/json"
)

// Ref points at another entity. The backend sends either the bare id or the
// populated document; both decode into the same shape.
type Ref struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

func (r *Ref) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		return json.Unmarshal(b, &r.ID)
	}

	var doc struct {
		ID    string `json:"_id"`
		AltID string `json:"id"`
		Name  string `json:"name"`
		Title string `json:"title"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	r.ID = doc.ID
	if r.ID == "" {
		r.ID = doc.AltID
	}
	r.Name = doc.Name
	if r.Name == "" {
		r.Name = doc.Title
	}
	return nil
}
