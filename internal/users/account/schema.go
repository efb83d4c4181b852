// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	requestutil "github.com/taibuivan/wanderlust/internal/platform/request"
	"github.com/taibuivan/wanderlust/internal/platform/sec"
)

// formGroup prefixes every account form field (user[username]).
const formGroup = "user"

// maxFormBytes bounds the small credential forms.
const maxFormBytes = 16 << 10

// signupPayload is the raw signup form.
type signupPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements [validation.Validatable].
func (p signupPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Username, validation.Required, validation.RuneLength(3, 30), is.Alphanumeric),
		validation.Field(&p.Email, validation.Required, validation.RuneLength(3, 254), is.Email),
		validation.Field(&p.Password, validation.Required, validation.Length(8, sec.MaxPasswordBytes)),
	)
}

// Input converts the validated payload.
func (p signupPayload) Input() (RegisterInput, error) {
	return RegisterInput{
		Username: p.Username,
		Email:    strings.ToLower(p.Email),
		Password: p.Password,
	}, nil
}

// loginPayload is the raw login form.
type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate implements [validation.Validatable].
func (p loginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Username, validation.Required),
		validation.Field(&p.Password, validation.Required),
	)
}

func bindSignup(writer http.ResponseWriter, request *http.Request) (signupPayload, error) {
	if err := requestutil.ParseForm(writer, request, maxFormBytes); err != nil {
		return signupPayload{}, err
	}
	return signupPayload{
		Username: requestutil.Field(request, formGroup, "username"),
		Email:    requestutil.Field(request, formGroup, "email"),
		Password: request.PostFormValue(formGroup + "[password]"),
	}, nil
}

func bindLogin(writer http.ResponseWriter, request *http.Request) (loginPayload, error) {
	if err := requestutil.ParseForm(writer, request, maxFormBytes); err != nil {
		return loginPayload{}, err
	}
	return loginPayload{
		Username: requestutil.Field(request, formGroup, "username"),
		Password: request.PostFormValue(formGroup + "[password]"),
	}, nil
}
