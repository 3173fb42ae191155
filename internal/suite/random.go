package suite

import (
	"math/rand"
	"strings"
)

const (
	letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits  = "0123456789"
)

// RandomString returns n random letters of mixed case
func RandomString(n int) string {
	return randomFrom(letters, n)
}

// RandomNumber returns n random digits
func RandomNumber(n int) string {
	return randomFrom(digits, n)
}

// RandomAlphaNumeric returns a password shaped like abc@123
func RandomAlphaNumeric() string {
	return RandomString(3) + "@" + RandomNumber(3)
}

func randomFrom(alphabet string, n int) string {
	if n <= 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[rand.Intn(len(alphabet))])
	}
	return b.String()
}
