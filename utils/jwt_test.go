package utils

import (
	"testing"
	"time"
)

func TestValidateAccessToken_RejectsVerifyToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_AUD", "")
	t.Setenv("JWT_ISS", "")

	verify, err := GenerateVerifyToken(42, 48*time.Hour)
	if err != nil {
		t.Fatalf("GenerateVerifyToken: %v", err)
	}
	if _, err := ValidateAccessToken(verify); err == nil {
		t.Fatal("verification token was accepted as an access token")
	}
}

func TestValidateAccessToken_AcceptsAccessToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_AUD", "")
	t.Setenv("JWT_ISS", "")

	access, err := GenerateAccessToken(42)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	claims, err := ValidateAccessToken(access)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	uid, err := ClaimsUserID(claims)
	if err != nil || uid != 42 {
		t.Fatalf("ClaimsUserID = %d, %v; want 42, nil", uid, err)
	}
}

func TestParseVerifyToken_RejectsAccessToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	access, err := GenerateAccessToken(42)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := ParseVerifyToken(access); err == nil {
		t.Fatal("access token was accepted as a verification token")
	}
}

func TestParseVerifyToken_RoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	verify, err := GenerateVerifyToken(7, time.Hour)
	if err != nil {
		t.Fatalf("GenerateVerifyToken: %v", err)
	}
	uid, err := ParseVerifyToken(verify)
	if err != nil || uid != 7 {
		t.Fatalf("ParseVerifyToken = %d, %v; want 7, nil", uid, err)
	}
}
