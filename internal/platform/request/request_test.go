// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/wanderlust/internal/platform/apperr"
	"github.com/taibuivan/wanderlust/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/wanderlust/internal/platform/request"
	"github.com/taibuivan/wanderlust/internal/platform/sec"
)

/*
TestParseForm_URLEncoded reads grouped fields from a plain form.
*/
func TestParseForm_URLEncoded(t *testing.T) {
	form := url.Values{"review[rating]": {" 4 "}, "review[comment]": {"Lovely stay"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	require.NoError(t, requestutil.ParseForm(httptest.NewRecorder(), req, 1024))
	assert.Equal(t, "4", requestutil.Field(req, "review", "rating"))
	assert.Equal(t, "Lovely stay", requestutil.Field(req, "review", "comment"))
	assert.Empty(t, requestutil.Field(req, "review", "missing"))
}

/*
TestParseForm_Multipart reads fields and files from a multipart body.
*/
func TestParseForm_Multipart(t *testing.T) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("listing[title]", "Beach hut"))
	part, err := writer.CreateFormFile("listing[image]", "hut.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	require.NoError(t, requestutil.ParseForm(httptest.NewRecorder(), req, 1<<20))
	assert.Equal(t, "Beach hut", requestutil.Field(req, "listing", "title"))

	file, header, err := requestutil.File(req, "listing", "image")
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, "hut.png", header.Filename)
}

/*
TestParseForm_TooLarge rejects an oversized body as a validation fault.
*/
func TestParseForm_TooLarge(t *testing.T) {
	form := url.Values{"listing[description]": {strings.Repeat("x", 200)}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	err := requestutil.ParseForm(httptest.NewRecorder(), req, 16)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestRequiredUser reports an internal fault when no identity is attached.
*/
func TestRequiredUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := requestutil.RequiredUser(req)
	assert.True(t, apperr.HasCode(err, apperr.CodeInternal))

	identity := &sec.Identity{UserID: "u1", Username: "alice"}
	req = req.WithContext(ctxutil.WithCurrentUser(req.Context(), identity))
	user, err := requestutil.RequiredUser(req)
	require.NoError(t, err)
	assert.Equal(t, identity, user)
}
