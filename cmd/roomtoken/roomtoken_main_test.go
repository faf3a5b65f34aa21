package main

import (
	"errors"
	"testing"
	"time"

	"PlanetWars/internal/shared/security"
)

func TestIssue(t *testing.T) {
	tok, err := issue("s3cret", "r1", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	_, claims, err := security.ParseToken("s3cret", tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Room != "r1" {
		t.Fatalf("room = %q", claims.Room)
	}

	if _, err := issue("", "r1", time.Hour); !errors.Is(err, security.ErrJWTSecretMissing) {
		t.Fatalf("empty secret should fail, got %v", err)
	}
}
