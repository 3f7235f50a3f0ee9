// Package model holds the records exchanged by the tutorial endpoints.
// Field tags follow the rules of package schema: pointers and slices are
// optional, `default` fills absent values and `validate` adds constraints.
package model

// Item is the basic catalog record.
type Item struct {
	Name        string   `json:"name"`
	Age         *int     `json:"age"`
	Description *string  `json:"description" validate:"omitempty,max=300"`
	Price       float64  `json:"price"`
	Tax         *float64 `json:"tax"`
}

// QuickItem is the record of the quickstart endpoints.
type QuickItem struct {
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	IsOffer *bool   `json:"is_offer"`
}

type Image struct {
	URL  string `json:"url" validate:"http_url"`
	Name string `json:"name"`
}

// Item2 carries a set of tags and an optional nested image.
type Item2 struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Price       float64  `json:"price"`
	Tax         *float64 `json:"tax"`
	Tags        []string `json:"tags" default:"[]" validate:"unique"`
	Image       *Image   `json:"image"`
}

type Item4 struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Price       float64  `json:"price"`
	Tax         *float64 `json:"tax"`
}

type ResponseItem struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Price       float64  `json:"price"`
	Tax         *float64 `json:"tax"`
	Tags        []string `json:"tags" default:"[]"`
}

// Item5 has a non-null tax with a declared default.
type Item5 struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	Tax         float64 `json:"tax" default:"10.5"`
}
