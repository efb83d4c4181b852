// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It hides the router's parameter extraction and the form conventions used by the
HTML views, where related fields are grouped as group[name] (for example
listing[title] or review[rating]).
*/
package requestutil

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/wanderlust/internal/platform/apperr"
	"github.com/taibuivan/wanderlust/internal/platform/ctxutil"
	"github.com/taibuivan/wanderlust/internal/platform/sec"
)

// ErrInvalidForm is returned when the request body cannot be parsed as a form.
var ErrInvalidForm = apperr.ValidationError("Invalid form payload")

// multipartMemory is how much of a multipart body is buffered before spilling to disk.
const multipartMemory = 1 << 20

/*
ParseForm reads a url-encoded or multipart body, capped at maxBytes.

Parameters:
  - writer: http.ResponseWriter (needed by http.MaxBytesReader)
  - request: *http.Request
  - maxBytes: int64 (upper bound for the whole body)

Returns:
  - error: ErrInvalidForm if the body is malformed, a VALIDATION_ERROR if it
    is too large, otherwise nil
*/
func ParseForm(writer http.ResponseWriter, request *http.Request, maxBytes int64) error {
	if request.Form != nil {
		return nil
	}

	request.Body = http.MaxBytesReader(writer, request.Body, maxBytes)

	var err error
	if strings.HasPrefix(request.Header.Get("Content-Type"), "multipart/form-data") {
		err = request.ParseMultipartForm(multipartMemory)
	} else {
		err = request.ParseForm()
	}

	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.ValidationError(fmt.Sprintf("Form payload exceeds %d bytes", maxBytes))
		}
		return ErrInvalidForm
	}

	return nil
}

/*
Field returns the trimmed value of group[name] from a parsed form.
*/
func Field(request *http.Request, group, name string) string {
	return strings.TrimSpace(request.PostFormValue(group + "[" + name + "]"))
}

/*
File returns the uploaded file stored under group[name].

Returns:
  - multipart.File, *multipart.FileHeader: the upload
  - error: http.ErrMissingFile when no file was sent
*/
func File(request *http.Request, group, name string) (multipart.File, *multipart.FileHeader, error) {
	return request.FormFile(group + "[" + name + "]")
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
CurrentUser returns the identity attached to the request, or nil.
*/
func CurrentUser(request *http.Request) *sec.Identity {
	return ctxutil.GetCurrentUser(request.Context())
}

/*
RequiredUser returns the current identity.

Returns:
  - *sec.Identity: the logged-in user
  - error: an internal fault if no identity is attached, since every route
    calling this sits behind RequireAuth
*/
func RequiredUser(request *http.Request) (*sec.Identity, error) {
	user := CurrentUser(request)
	if user == nil {
		return nil, apperr.Internal(errors.New("current user missing behind auth guard"))
	}
	return user, nil
}
