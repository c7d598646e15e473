package codegen

import (
	"errors"
	"fmt"
	"math"
)

// Alphabet is the base62 digit set, ordered by digit value.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const base = uint64(len(Alphabet))

// Encode renders n in base62, most significant digit first.
// Encode(0) is the first alphabet symbol.
func Encode(n uint64) string {
	if n == 0 {
		return Alphabet[:1]
	}

	// 11 digits cover math.MaxUint64.
	var buf [11]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = Alphabet[n%base]
		n /= base
	}
	return string(buf[i:])
}

// Decode is the inverse of Encode. It fails on empty input, non-base62
// characters and values that overflow 64 bits.
func Decode(s string) (uint64, error) {
	if s == "" {
		return 0, errors.New("empty code")
	}

	var n uint64
	for i := 0; i < len(s); i++ {
		d := digit(s[i])
		if d < 0 {
			return 0, fmt.Errorf("invalid character %q at position %d", s[i], i)
		}
		if n > (math.MaxUint64-uint64(d))/base {
			return 0, errors.New("code overflows 64 bits")
		}
		n = n*base + uint64(d)
	}
	return n, nil
}

func digit(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 36
	default:
		return -1
	}
}
