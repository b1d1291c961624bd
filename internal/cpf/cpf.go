// Package cpf validates Brazilian individual taxpayer numbers (CPF).
//
// A CPF is eleven decimal digits; the last two are check digits computed
// from the first nine with a weighted sum modulo 11.
package cpf

import (
	"errors"
	"strings"
)

// Length is the number of digits of a normalized CPF
const Length = 11

var (
	ErrInvalidFormat   = errors.New("cpf needs to have 11 digits")
	ErrInvalidChecksum = errors.New("invalid cpf")
)

// Normalize strips every non-digit character from raw.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Validate reports whether raw is a valid CPF once punctuation and
// whitespace are removed.
func Validate(raw string) error {
	digits := Normalize(raw)
	if len(digits) != Length {
		return ErrInvalidFormat
	}

	// Repeated sequences pass the arithmetic but are never issued
	if strings.Count(digits, digits[:1]) == Length {
		return ErrInvalidChecksum
	}

	dv1, dv2 := CheckDigits(digits[:9])
	if int(digits[9]-'0') != dv1 || int(digits[10]-'0') != dv2 {
		return ErrInvalidChecksum
	}

	return nil
}

// CheckDigits computes both check digits for the nine-digit base.
// base must contain exactly nine ASCII digits.
func CheckDigits(base string) (int, int) {
	nums := make([]int, 0, Length)
	for i := 0; i < len(base); i++ {
		nums = append(nums, int(base[i]-'0'))
	}

	dv1 := checkDigit(nums, 10)
	nums = append(nums, dv1)
	dv2 := checkDigit(nums, 11)

	return dv1, dv2
}

// checkDigit applies weights startWeight, startWeight-1, ..., 2 to nums
func checkDigit(nums []int, startWeight int) int {
	sum := 0
	for i, n := range nums {
		sum += n * (startWeight - i)
	}

	remainder := sum % 11
	if remainder < 2 {
		return 0
	}
	return 11 - remainder
}
