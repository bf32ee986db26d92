package crypto

import (
	"encoding/hex"
	"testing"
)

func TestGenerateResetToken(t *testing.T) {
	token, digest, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("GenerateResetToken() unexpected error: %v", err)
	}

	if len(token) != ResetTokenBytes*2 {
		t.Errorf("GenerateResetToken() token length = %d, want %d", len(token), ResetTokenBytes*2)
	}
	if _, err := hex.DecodeString(token); err != nil {
		t.Errorf("GenerateResetToken() token is not hex: %v", err)
	}

	if digest != HashResetToken(token) {
		t.Error("GenerateResetToken() digest does not match HashResetToken(token)")
	}
	if digest == token {
		t.Error("GenerateResetToken() stored digest must differ from the raw token")
	}
}

func TestGenerateResetTokenUnique(t *testing.T) {
	t1, _, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("GenerateResetToken() unexpected error: %v", err)
	}
	t2, _, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("GenerateResetToken() unexpected error: %v", err)
	}
	if t1 == t2 {
		t.Error("GenerateResetToken() produced identical tokens")
	}
}

func TestHashResetTokenDeterministic(t *testing.T) {
	if HashResetToken("abc") != HashResetToken("abc") {
		t.Error("HashResetToken() is not deterministic")
	}
	if HashResetToken("abc") == HashResetToken("abd") {
		t.Error("HashResetToken() collided for different tokens")
	}
}
