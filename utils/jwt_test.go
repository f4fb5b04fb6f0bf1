package utils

import "testing"

func TestGenerateAndValidateJWT(t *testing.T) {
	InitJWT([]byte("test-key"))

	token, err := GenerateJWT("u-1", "a@x.com", RoleUser)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != "u-1" || claims.Email != "a@x.com" || claims.Role != RoleUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestValidateJWTRejectsWrongKey(t *testing.T) {
	InitJWT([]byte("key-one"))
	token, err := GenerateJWT("u-1", "a@x.com", RoleAdmin)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	InitJWT([]byte("key-two"))
	if _, err := ValidateJWT(token); err == nil {
		t.Fatal("expected validation failure with wrong key")
	}
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	InitJWT([]byte("test-key"))
	if _, err := ValidateJWT("not.a.token"); err == nil {
		t.Fatal("expected validation failure for malformed token")
	}
}
