// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"strings"

	"github.com/taibuivan/wanderlust/internal/platform/constants"
)

var overridableMethods = map[string]bool{
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// MethodOverride lets an HTML form POST stand in for PUT, PATCH or DELETE.
//
// The verb travels in the query string (?_method=DELETE) so the override is
// known before the body is parsed. Only POST requests are rewritten.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Method == http.MethodPost {
			method := strings.ToUpper(request.URL.Query().Get(constants.MethodOverrideParam))
			if overridableMethods[method] {
				request.Method = method
			}
		}
		next.ServeHTTP(writer, request)
	})
}
