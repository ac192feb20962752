// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=19456,t=2,p=1$") {
		t.Errorf("unexpected hash prefix: %s", hash)
	}

	other, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == other {
		t.Error("two hashes of the same password should use different salts")
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	tests := []struct {
		password string
		want     bool
	}{
		{"changeme", true},
		{"wrongpassword", false},
		{"", false},
		{"Changeme", false},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			got, err := CheckPassword(tt.password, hash)
			if err != nil {
				t.Fatalf("CheckPassword error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CheckPassword(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}

func TestCheckPassword_Malformed(t *testing.T) {
	for _, hash := range []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=1,t=1,p=1$!!!$a2V5",
	} {
		_, err := CheckPassword("x", hash)
		if !errors.Is(err, ErrMalformedHash) {
			t.Errorf("CheckPassword(%q) error = %v, want ErrMalformedHash", hash, err)
		}
	}
}

func TestNeedsRehash(t *testing.T) {
	current, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if NeedsRehash(current) {
		t.Error("hash with current parameters should not need rehash")
	}

	old := "$argon2id$v=19$m=65536,t=1,p=4$c2FsdHNhbHRzYWx0$a2V5a2V5a2V5a2V5a2V5a2V5a2V5a2V5a2V5"
	if !NeedsRehash(old) {
		t.Error("hash with old parameters should need rehash")
	}
	if !NeedsRehash("garbage") {
		t.Error("malformed hash should need rehash")
	}
}
