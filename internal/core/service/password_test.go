package service

import (
	"strings"
	"testing"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher()
	for _, p := range []string{"a", "correct horse battery staple", "pässwörd", strings.Repeat("z", 72)} {
		digest, err := h.Hash(p)
		if err != nil {
			t.Fatalf("Hash(%q): %v", p, err)
		}
		if digest == p {
			t.Fatalf("digest equals plaintext for %q", p)
		}
		if !h.Verify(p, digest) {
			t.Fatalf("password %q should verify", p)
		}
	}
}

func TestBcryptHasher_WrongPassword(t *testing.T) {
	h := NewBcryptHasher()
	digest, err := h.Hash("correctpassword")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	for _, attempt := range []string{"wrongpassword", "correctpasswor", ""} {
		if h.Verify(attempt, digest) {
			t.Fatalf("password %q should not verify", attempt)
		}
	}
}

func TestBcryptHasher_RejectsSuffixBeyondLimit(t *testing.T) {
	h := NewBcryptHasher()
	stored := strings.Repeat("a", maxPasswordBytes)
	digest, err := h.Hash(stored)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	if !h.Verify(stored, digest) {
		t.Fatal("exact password should verify")
	}
	for _, attempt := range []string{stored + "WRONG", stored + "a"} {
		if h.Verify(attempt, digest) {
			t.Fatalf("password with %d bytes should not verify", len(attempt))
		}
	}
}

func TestBcryptHasher_SaltedDigestsDiffer(t *testing.T) {
	h := NewBcryptHasher()
	first, err := h.Hash("samepassword")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	second, err := h.Hash("samepassword")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	if first == second {
		t.Fatal("expected different digests for the same password")
	}
	if !h.Verify("samepassword", first) || !h.Verify("samepassword", second) {
		t.Fatal("both digests should verify")
	}
}

func TestBcryptHasher_RejectsBadLengths(t *testing.T) {
	h := NewBcryptHasher()
	if _, err := h.Hash(""); err == nil {
		t.Fatal("expected error for empty password")
	}
	if _, err := h.Hash(strings.Repeat("x", 73)); err == nil {
		t.Fatal("expected error for 73-byte password")
	}
}

func TestBcryptHasher_MalformedDigest(t *testing.T) {
	if NewBcryptHasher().Verify("anything", "not-a-bcrypt-digest") {
		t.Fatal("malformed digest should never verify")
	}
}
