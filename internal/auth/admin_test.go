package auth

import (
	"testing"
	"time"
)

func TestLoginAndValidate(t *testing.T) {
	g := NewGate("melo2024", "signing-secret", 30*time.Minute)

	if _, err := g.Login("wrong"); err != ErrInvalidPassword {
		t.Fatalf("wrong password: got %v want ErrInvalidPassword", err)
	}

	token, err := g.Login("melo2024")
	if err != nil {
		t.Fatalf("Login err: %v", err)
	}
	if err := g.Validate(token); err != nil {
		t.Fatalf("Validate err: %v", err)
	}
}

func TestValidateRejectsTampering(t *testing.T) {
	g := NewGate("melo2024", "signing-secret", 30*time.Minute)
	other := NewGate("melo2024", "different-secret", 30*time.Minute)

	token, err := other.Login("melo2024")
	if err != nil {
		t.Fatalf("Login err: %v", err)
	}
	if err := g.Validate(token); err != ErrTokenSig {
		t.Fatalf("foreign token: got %v want ErrTokenSig", err)
	}
	if err := g.Validate("not-base64!!"); err != ErrTokenFormat {
		t.Fatalf("garbage token: got %v want ErrTokenFormat", err)
	}
}

func TestValidateExpiry(t *testing.T) {
	current := time.Date(2024, 10, 24, 12, 0, 0, 0, time.UTC)
	g := NewGate("melo2024", "signing-secret", 30*time.Minute,
		WithClock(func() time.Time { return current }))

	token, err := g.Login("melo2024")
	if err != nil {
		t.Fatalf("Login err: %v", err)
	}
	if err := g.Validate(token); err != nil {
		t.Fatalf("fresh token: %v", err)
	}

	current = current.Add(31 * time.Minute)
	if err := g.Validate(token); err != ErrTokenExpired {
		t.Fatalf("stale token: got %v want ErrTokenExpired", err)
	}
}

func TestChangePassword(t *testing.T) {
	g := NewGate("melo2024", "signing-secret", 30*time.Minute)

	if err := g.ChangePassword("wrong", "newpassword"); err != ErrInvalidPassword {
		t.Fatalf("wrong current: got %v", err)
	}
	if err := g.ChangePassword("melo2024", "short"); err != ErrPasswordTooShort {
		t.Fatalf("short new password: got %v", err)
	}
	if err := g.ChangePassword("melo2024", "longenough"); err != nil {
		t.Fatalf("ChangePassword err: %v", err)
	}
	if _, err := g.Login("melo2024"); err != ErrInvalidPassword {
		t.Fatal("old password should stop working")
	}
	if _, err := g.Login("longenough"); err != nil {
		t.Fatalf("new password login err: %v", err)
	}
}
