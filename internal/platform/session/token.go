// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/taibuivan/wanderlust/internal/platform/constants"
)

// GenerateToken returns a cryptographically secure session token.
// 32 bytes = 256 bits of entropy, base64url without padding.
func GenerateToken() (string, error) {
	buffer := make([]byte, constants.SessionTokenLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("session: failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buffer), nil
}
