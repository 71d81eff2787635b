package utils

import (
	"net/mail"
	"strings"

	"github.com/google/uuid"
)

func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// ToUUID parses s, returning uuid.Nil and false when it is not a UUID.
func ToUUID(s string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
