package authutil

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("secret123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "secret123" {
		t.Fatal("hash equals plaintext")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("hash %q does not look like bcrypt", hash)
	}
	if !CheckPassword(hash, "secret123") {
		t.Error("CheckPassword rejected the correct password")
	}
	if CheckPassword(hash, "secret124") {
		t.Error("CheckPassword accepted a wrong password")
	}
}

func TestHashPassword_Salted(t *testing.T) {
	a, _ := HashPassword("same", bcrypt.MinCost)
	b, _ := HashPassword("same", bcrypt.MinCost)
	if a == b {
		t.Error("two hashes of the same password are identical")
	}
}

func TestHashPassword_Empty(t *testing.T) {
	if _, err := HashPassword("", DefaultCost); err != ErrPasswordRequired {
		t.Errorf("expected ErrPasswordRequired, got %v", err)
	}
}

func TestHashPassword_BadCostFallsBack(t *testing.T) {
	hash, err := HashPassword("pw", 99)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("bcrypt.Cost failed: %v", err)
	}
	if cost != DefaultCost {
		t.Errorf("cost: got %d, want %d", cost, DefaultCost)
	}
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	if CheckPassword("not-a-hash", "pw") {
		t.Error("CheckPassword accepted a malformed hash")
	}
	if CheckPassword("", "") {
		t.Error("CheckPassword accepted empty inputs")
	}
}

func TestConstantTimeEqual(t *testing.T) {
	if !ConstantTimeEqual("hunter2", "hunter2") {
		t.Error("equal strings reported unequal")
	}
	if ConstantTimeEqual("hunter2", "hunter3") {
		t.Error("different strings reported equal")
	}
	if ConstantTimeEqual("short", "longer") {
		t.Error("different lengths reported equal")
	}
}
