package helpers

import "testing"

func TestHashPassword_SaltedPerCall(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if h1 == h2 {
		t.Fatal("expected different hashes for the same input (per-call salt)")
	}
	if h1 == "hunter2hunter2" {
		t.Fatal("hash must not equal the plaintext")
	}
}

func TestCompareHashAndPassword(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !CompareHashAndPassword(h, "correct horse battery") {
		t.Fatal("expected match for correct password")
	}
	if CompareHashAndPassword(h, "wrong password") {
		t.Fatal("expected mismatch for wrong password")
	}
}
