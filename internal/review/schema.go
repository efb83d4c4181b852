// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"

	requestutil "github.com/taibuivan/wanderlust/internal/platform/request"
	"github.com/taibuivan/wanderlust/internal/platform/validate"
)

// formGroup prefixes every review form field (review[rating]).
const formGroup = "review"

// maxFormBytes bounds the review form.
const maxFormBytes = 16 << 10

// Input is a validated review form.
type Input struct {
	Rating  int
	Comment string
}

type payload struct {
	Rating  string `json:"rating"`
	Comment string `json:"comment"`
}

// Validate implements [validation.Validatable].
func (p payload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Rating, validation.Required, validate.IntBetween(1, 5)),
		validation.Field(&p.Comment, validation.Required, validation.RuneLength(3, 1000)),
	)
}

// Input converts the validated payload.
func (p payload) Input() (Input, error) {
	rating, err := strconv.Atoi(p.Rating)
	if err != nil {
		return Input{}, err
	}
	return Input{Rating: rating, Comment: p.Comment}, nil
}

// Binder reads the review form for [validate.Middleware].
func Binder() validate.Binder[Input] {
	return func(writer http.ResponseWriter, request *http.Request) (validate.Payload[Input], error) {
		if err := requestutil.ParseForm(writer, request, maxFormBytes); err != nil {
			return nil, err
		}
		return payload{
			Rating:  requestutil.Field(request, formGroup, "rating"),
			Comment: requestutil.Field(request, formGroup, "comment"),
		}, nil
	}
}
