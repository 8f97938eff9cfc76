package credentials

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	PasswordLength = 12

	upperLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerLetters = "abcdefghijklmnopqrstuvwxyz"
	digits       = "0123456789"
	alphanumeric = upperLetters + lowerLetters + digits
)

// GeneratePassword returns a random 12 character password. The first character is
// uppercase and the last two hold one lowercase letter and one digit in random order.
func GeneratePassword() (string, error) {
	buf := make([]byte, PasswordLength)

	first, err := pick(upperLetters)
	if err != nil {
		return "", err
	}
	buf[0] = first

	for i := 1; i < PasswordLength-2; i++ {
		c, err := pick(alphanumeric)
		if err != nil {
			return "", err
		}
		buf[i] = c
	}

	lower, err := pick(lowerLetters)
	if err != nil {
		return "", err
	}
	digit, err := pick(digits)
	if err != nil {
		return "", err
	}

	swap, err := rand.Int(rand.Reader, big.NewInt(2))
	if err != nil {
		return "", fmt.Errorf("failed to read random source: %w", err)
	}
	if swap.Int64() == 0 {
		buf[PasswordLength-2], buf[PasswordLength-1] = lower, digit
	} else {
		buf[PasswordLength-2], buf[PasswordLength-1] = digit, lower
	}

	return string(buf), nil
}

func pick(alphabet string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
	if err != nil {
		return 0, fmt.Errorf("failed to read random source: %w", err)
	}
	return alphabet[n.Int64()], nil
}
