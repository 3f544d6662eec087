package util

import (
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// HashPasscode hashes a plain text staff passcode
func HashPasscode(passcode string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(passcode), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifyPasscode checks if a plain text passcode matches a hashed passcode
func VerifyPasscode(hashedPasscode, passcode string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPasscode), []byte(passcode))
	return err == nil
}
