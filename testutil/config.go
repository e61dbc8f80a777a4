package testutil

import (
	config "github.com/gurukul/gurukul-backend/configs"
)

// JWTSecret signs tokens in package tests.
const JWTSecret = "gurukul-test-secret"

// ConfigureAuth installs the token secret the server refuses to start without.
func ConfigureAuth() {
	config.Set("JWT_SECRET", JWTSecret)
}
