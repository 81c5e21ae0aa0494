package services

import (
	"crypto/rand"
	"math/big"
)

// SafeAlphabet is the character set for short codes and deletion tokens.
// 56 characters; drops 0/O, 1/l/i/I and similar lookalike glyphs so codes
// survive being read aloud or copied by hand.
const SafeAlphabet = "abcdefghjkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// DefaultCodeLength is the short code length (56^3 = 175,616 combinations,
// plenty for a personal-use shortener).
const DefaultCodeLength = 3

// DeletionTokenLength is the length of the secret deletion token.
const DeletionTokenLength = 6

// GenerateCode produces a uniformly random code of the given length over
// SafeAlphabet (DefaultCodeLength if length <= 0).
func GenerateCode(length int) (string, error) {
	if length <= 0 {
		length = DefaultCodeLength
	}

	code := make([]byte, length)
	max := big.NewInt(int64(len(SafeAlphabet)))

	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = SafeAlphabet[n.Int64()]
	}
	return string(code), nil
}
