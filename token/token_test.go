package token

import "testing"

func TestSessionRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	tkn, err := Generate(secret, "CM001", RoleCustomer, "John Doe")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	claims, err := Parse(secret, tkn)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if claims.UserID != "CM001" {
		t.Errorf("UserID = %q, want CM001", claims.UserID)
	}
	if claims.Role != RoleCustomer {
		t.Errorf("Role = %q, want %q", claims.Role, RoleCustomer)
	}
	if claims.Name != "John Doe" {
		t.Errorf("Name = %q, want John Doe", claims.Name)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tkn, err := Generate([]byte("secret-a"), "AD001", RoleAdmin, "Admin User")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, err := Parse([]byte("secret-b"), tkn); err == nil {
		t.Error("Parse accepted a token signed with a different secret")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte("secret"), "not.a.token"); err == nil {
		t.Error("Parse accepted a malformed token")
	}
}
