package library

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct-pw", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if hash == "correct-pw" || strings.Contains(hash, "correct-pw") {
		t.Errorf("HashPassword() leaked plaintext: %q", hash)
	}

	again, err := HashPassword("correct-pw", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if again == hash {
		t.Error("HashPassword() produced identical hashes, want per-record salt")
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct-pw", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	// Replace one character inside the checksum part of the hash.
	pos := len(hash) - 5
	replacement := byte('A')
	if hash[pos] == 'A' {
		replacement = 'B'
	}
	tampered := hash[:pos] + string(replacement) + hash[pos+1:]

	tests := []struct {
		name     string
		hash     string
		password string
		want     bool
	}{
		{name: "correct password", hash: hash, password: "correct-pw", want: true},
		{name: "wrong password", hash: hash, password: "wrong-pw", want: false},
		{name: "tampered hash", hash: tampered, password: "correct-pw", want: false},
		{name: "plaintext stored as hash", hash: "correct-pw", password: "correct-pw", want: false},
		{name: "empty hash", hash: "", password: "correct-pw", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPassword(tt.hash, tt.password); got != tt.want {
				t.Errorf("CheckPassword() = %v, want %v", got, tt.want)
			}
		})
	}
}
