// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/wanderlust/internal/platform/constants"
)

// CookieOptions defines how session cookies are issued.
type CookieOptions struct {
	Name   string
	Secret []byte
	MaxAge time.Duration
	Secure bool
	Path   string
}

// normalize applies safe defaults without breaking callers.
func (o CookieOptions) normalize() CookieOptions {
	if o.Name == "" {
		o.Name = constants.SessionCookieName
	}
	if o.Path == "" {
		o.Path = "/"
	}
	if o.MaxAge <= 0 {
		o.MaxAge = constants.DefaultSessionTTL
	}
	return o
}

// sign returns token.signature, where the signature is HMAC-SHA256 over the token.
func (o CookieOptions) sign(token string) string {
	return token + "." + o.mac(token)
}

// verify returns the token inside a signed value, or false if the signature
// does not match.
func (o CookieOptions) verify(value string) (string, bool) {
	token, signature, found := strings.Cut(value, ".")
	if !found || token == "" || signature == "" {
		return "", false
	}
	if !hmac.Equal([]byte(signature), []byte(o.mac(token))) {
		return "", false
	}
	return token, true
}

func (o CookieOptions) mac(token string) string {
	hash := hmac.New(sha256.New, o.Secret)
	hash.Write([]byte(token))
	return base64.RawURLEncoding.EncodeToString(hash.Sum(nil))
}

// setCookie issues the signed session cookie. A session cookie already queued
// on this response (the anonymous one, before a rotation) is replaced, so a
// response never carries two tokens.
func (o CookieOptions) setCookie(writer http.ResponseWriter, token string) {
	o.dropQueued(writer.Header())
	http.SetCookie(writer, &http.Cookie{
		Name:     o.Name,
		Value:    o.sign(token),
		Path:     o.Path,
		Expires:  time.Now().Add(o.MaxAge),
		MaxAge:   int(o.MaxAge / time.Second),
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// dropQueued removes any Set-Cookie header for the session cookie.
func (o CookieOptions) dropQueued(header http.Header) {
	queued := header.Values("Set-Cookie")
	if len(queued) == 0 {
		return
	}

	prefix := o.Name + "="
	kept := queued[:0:0]
	for _, value := range queued {
		if !strings.HasPrefix(value, prefix) {
			kept = append(kept, value)
		}
	}

	header.Del("Set-Cookie")
	for _, value := range kept {
		header.Add("Set-Cookie", value)
	}
}

// readToken extracts and verifies the token from the request cookie.
func (o CookieOptions) readToken(request *http.Request) (string, bool) {
	cookie, err := request.Cookie(o.Name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return o.verify(cookie.Value)
}
