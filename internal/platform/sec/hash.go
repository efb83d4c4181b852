// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the bcrypt input limit. Longer secrets are rejected by
// [bcrypt.GenerateFromPassword], so schemas cap passwords below it.
const MaxPasswordBytes = 72

// HashPassword hashes a plain-text password using the bcrypt algorithm.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
//
// The comparison is constant-time with respect to the password.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}

// DummyHash is compared against when a username does not exist, so an unknown
// user costs the same bcrypt round as a wrong password.
var DummyHash = func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte("wanderlust-timing-equalizer"), bcrypt.DefaultCost)
	if err != nil {
		panic("sec: failed to prepare dummy hash: " + err.Error())
	}
	return string(hash)
}()
