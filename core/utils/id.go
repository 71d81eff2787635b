package utils

import (
	"crypto/rand"
	"encoding/base64"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	alphanumeric = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	// Google Calendar event ids must use base32hex characters.
	base32hex = "0123456789abcdefghijklmnopqrstuv"
)

func GenerateID() string {
	id, err := gonanoid.Generate(alphanumeric, 7)
	if err != nil {
		return ""
	}
	return id
}

// GenerateRequestID returns an id usable as an external calendar event id.
func GenerateRequestID() string {
	id, err := gonanoid.Generate(base32hex, 26)
	if err != nil {
		return ""
	}
	return id
}

// GenerateRandomString generates a cryptographically secure random string
func GenerateRandomString(length int) string {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		id, _ := gonanoid.Generate(alphanumeric, length)
		return id
	}
	return base64.URLEncoding.EncodeToString(bytes)[:length]
}
