package utils

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret1", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "secret1" || strings.Contains(hash, "secret1") {
		t.Fatalf("plaintext recoverable from hash %q", hash)
	}
	if !VerifyPassword(hash, "secret1") {
		t.Fatalf("original password rejected")
	}
}

func TestVerifyPasswordSingleCharVariants(t *testing.T) {
	const pw = "secret1"
	hash, err := HashPassword(pw, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	for i := 0; i < len(pw); i++ {
		variant := []byte(pw)
		variant[i] ^= 0x01
		if VerifyPassword(hash, string(variant)) {
			t.Fatalf("variant %q accepted", variant)
		}
	}
	if VerifyPassword(hash, pw+"x") || VerifyPassword(hash, pw[:len(pw)-1]) {
		t.Fatalf("length variant accepted")
	}
}
