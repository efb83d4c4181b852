// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package listing

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	requestutil "github.com/taibuivan/wanderlust/internal/platform/request"
	"github.com/taibuivan/wanderlust/internal/platform/validate"
)

// formGroup prefixes every listing form field (listing[title]).
const formGroup = "listing"

// MaxPrice is the highest nightly price accepted.
const MaxPrice = 1000000

var titleCaser = cases.Title(language.English)

// Input is a validated listing form.
type Input struct {
	Title       string
	Description string
	Price       int
	Location    string
	Country     string
	// Category is the final category, with "Other" already replaced.
	Category string
	// ImageURL optionally replaces the image on edit.
	ImageURL string
}

// payload is the raw listing form.
type payload struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Price          string `json:"price"`
	Location       string `json:"location"`
	Country        string `json:"country"`
	Category       string `json:"category"`
	CustomCategory string `json:"custom_category"`
	ImageURL       string `json:"image_url"`
}

// Validate implements [validation.Validatable].
func (p payload) Validate() error {
	categories := make([]interface{}, len(Categories))
	for i, category := range Categories {
		categories[i] = category
	}

	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.RuneLength(3, 100)),
		validation.Field(&p.Description, validation.Required, validation.RuneLength(10, 2000)),
		validation.Field(&p.Price, validation.Required, validate.IntBetween(0, MaxPrice)),
		validation.Field(&p.Location, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&p.Country, validation.Required, validation.RuneLength(1, 60)),
		validation.Field(&p.Category, validation.Required, validation.In(categories...)),
		validation.Field(&p.CustomCategory, validation.By(p.customCategoryRule)),
		validation.Field(&p.ImageURL, validation.RuneLength(0, 2048), is.URL),
	)
}

// customCategoryRule requires 2 to 40 characters when the category is "Other".
func (p payload) customCategoryRule(value interface{}) error {
	if p.Category != CategoryOther {
		return nil
	}

	custom, _ := value.(string)
	length := utf8.RuneCountInString(strings.TrimSpace(custom))
	switch {
	case length == 0:
		return errors.New("cannot be blank")
	case length < 2 || length > 40:
		return errors.New("the length must be between 2 and 40")
	}
	return nil
}

// Input converts the validated payload, substituting the custom category.
func (p payload) Input() (Input, error) {
	price, err := strconv.Atoi(p.Price)
	if err != nil {
		return Input{}, err
	}

	category := p.Category
	if category == CategoryOther && p.CustomCategory != "" {
		category = titleCaser.String(strings.Join(strings.Fields(p.CustomCategory), " "))
	}

	return Input{
		Title:       p.Title,
		Description: p.Description,
		Price:       price,
		Location:    p.Location,
		Country:     p.Country,
		Category:    category,
		ImageURL:    p.ImageURL,
	}, nil
}

// Binder reads the listing form for [validate.Middleware].
func Binder(maxBytes int64) validate.Binder[Input] {
	return func(writer http.ResponseWriter, request *http.Request) (validate.Payload[Input], error) {
		if err := requestutil.ParseForm(writer, request, maxBytes); err != nil {
			return nil, err
		}
		return payload{
			Title:          requestutil.Field(request, formGroup, "title"),
			Description:    requestutil.Field(request, formGroup, "description"),
			Price:          requestutil.Field(request, formGroup, "price"),
			Location:       requestutil.Field(request, formGroup, "location"),
			Country:        requestutil.Field(request, formGroup, "country"),
			Category:       requestutil.Field(request, formGroup, "category"),
			CustomCategory: requestutil.Field(request, formGroup, "custom_category"),
			ImageURL:       requestutil.Field(request, formGroup, "image_url"),
		}, nil
	}
}
