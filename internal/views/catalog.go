package views

import "github.com/saulo-duarte/mockprep/internal/model"

// CatalogEntry is a mock test as shown to users. Free tests carry no price
// fields at all.
type CatalogEntry struct {
	model.MockTest
	Price         *float64 `json:"price,omitempty"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	ShowPrice     bool     `json:"showPrice"`
}

func Entry(t model.MockTest) CatalogEntry {
	e := CatalogEntry{MockTest: t, ShowPrice: t.ShowPrice()}
	if e.ShowPrice {
		price := t.Price
		e.Price = &price
		e.OriginalPrice = t.OriginalPrice
	}
	return e
}

func Catalog(tests []model.MockTest) []CatalogEntry {
	out := make([]CatalogEntry, 0, len(tests))
	for _, t := range tests {
		out = append(out, Entry(t))
	}
	return out
}
