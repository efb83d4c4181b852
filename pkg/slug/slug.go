// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug turns arbitrary Unicode text into short ASCII slugs.
//
// Stored upload names keep a readable slug of the original filename
// ("Café Terrace.png" is stored as "cafe-terrace-<uuid>.png"), so files on
// disk stay recognizable without ever using user input as a path.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength caps a slug so generated filenames stay well under filesystem limits.
const MaxLength = 60

// stripMarks decomposes accented letters and drops the accents.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// From returns the lowercase ASCII letters and digits of s, with every other
// run of characters collapsed into a single hyphen. Leading and trailing
// hyphens are dropped and the result is cut to [MaxLength] at a word boundary
// when possible.
func From(s string) string {
	plain, _, err := transform.String(stripMarks, s)
	if err != nil {
		plain = s
	}

	var builder strings.Builder
	pendingHyphen := false

	for _, r := range strings.ToLower(plain) {
		if !isSlugRune(r) {
			pendingHyphen = builder.Len() > 0
			continue
		}
		if pendingHyphen {
			builder.WriteByte('-')
			pendingHyphen = false
		}
		builder.WriteRune(r)
	}

	return truncate(builder.String())
}

func isSlugRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

func truncate(slug string) string {
	if len(slug) <= MaxLength {
		return slug
	}
	slug = slug[:MaxLength]
	if cut := strings.LastIndexByte(slug, '-'); cut > MaxLength/2 {
		slug = slug[:cut]
	}
	return strings.TrimSuffix(slug, "-")
}
