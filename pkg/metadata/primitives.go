// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"bytes"
	"regexp"
)

const (
	// HexPattern matches a non-empty string made only of hexadecimal digits.
	HexPattern = `^[0-9A-Fa-f]+$`
	// IntegerPattern matches a non-empty string made only of ASCII decimal digits.
	IntegerPattern = `^[0-9]+$`

	// HashLength is the length of a hex encoded 256-bit hash.
	HashLength = 64
)

var (
	hexRegexp     = regexp.MustCompile(HexPattern)
	integerRegexp = regexp.MustCompile(IntegerPattern)

	// pngSignature is the fixed 8-byte header of every PNG file.
	pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
)

// IsHexString reports whether s is a non-empty string of hexadecimal digits.
func IsHexString(s string) bool {
	return hexRegexp.MatchString(s)
}

// IsIntegerString reports whether s is a non-empty string of decimal digits.
func IsIntegerString(s string) bool {
	return integerRegexp.MatchString(s)
}

// Is256BitHash reports whether s is a 64 character hex string.
func Is256BitHash(s string) bool {
	return len(s) == HashLength && IsHexString(s)
}

// IsPNG reports whether data starts with the PNG signature and carries at
// least one byte of content after it.
func IsPNG(data []byte) bool {
	return len(data) > len(pngSignature) && bytes.HasPrefix(data, pngSignature)
}
