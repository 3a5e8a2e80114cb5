package security

import "testing"

func TestNewResetToken(t *testing.T) {
	raw, digest, err := NewResetToken()
	if err != nil {
		t.Fatalf("new reset token: %v", err)
	}

	if len(raw) != 64 {
		t.Fatalf("expected 32 random bytes hex-encoded, got %d chars", len(raw))
	}
	if len(digest) != 64 {
		t.Fatalf("expected sha256 hex digest, got %d chars", len(digest))
	}
	if raw == digest {
		t.Fatalf("raw token must not equal its digest")
	}
	if HashResetToken(raw) != digest {
		t.Fatalf("digest should be the hash of the raw token")
	}
}

func TestNewResetTokenIsUnique(t *testing.T) {
	first, _, err := NewResetToken()
	if err != nil {
		t.Fatalf("new reset token: %v", err)
	}
	second, _, err := NewResetToken()
	if err != nil {
		t.Fatalf("new reset token: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct tokens")
	}
}
