package crypto

import (
	"strings"
	"testing"
)

func TestRandomString(t *testing.T) {
	testCases := []struct {
		name     string
		length   int
		alphabet string
	}{
		{name: "alphanumeric", length: 32, alphabet: AlphanumericAlphabet},
		{name: "digits", length: 6, alphabet: DigitsAlphabet},
		{name: "pkce", length: 43, alphabet: pkceAlphabet},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := RandomString(tc.length, tc.alphabet)
			if len(s) != tc.length {
				t.Errorf("RandomString() length = %d, want %d", len(s), tc.length)
			}
			for _, char := range s {
				if !strings.ContainsRune(tc.alphabet, char) {
					t.Errorf("RandomString() contains invalid character: %c", char)
				}
			}
		})
	}
}

func TestRandomDigitsFixedWidth(t *testing.T) {
	// Leading zeros must be preserved; generate enough codes that a
	// shorter-than-6 result would certainly show up if zeros were dropped.
	for i := 0; i < 200; i++ {
		code := RandomDigits(6)
		if len(code) != 6 {
			t.Fatalf("RandomDigits(6) = %q, want exactly 6 digits", code)
		}
		for _, char := range code {
			if char < '0' || char > '9' {
				t.Fatalf("RandomDigits(6) = %q contains non-digit", code)
			}
		}
	}
}
