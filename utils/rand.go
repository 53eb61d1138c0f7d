package utils

import (
	"gitlab.com/go-extension/rand"
)

const letters = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GetString returns a random alphanumeric string drawn from the crypto source.
func GetString(length int) string {
	str := make([]byte, length)
	for i := range str {
		str[i] = letters[rand.Crypto.IntN(len(letters))]
	}

	return string(str)
}
