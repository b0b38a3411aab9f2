package auth

import (
	"strings"
	"testing"
	"time"

	"CampusManager/internal/config"
)

func testIssuer(accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return NewTokenIssuer(&config.Config{
		JWTSecret:          "access-secret",
		RefreshTokenSecret: "refresh-secret",
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	issuer := testIssuer(time.Hour, 7*24*time.Hour)

	token, err := issuer.GenerateAccessToken("507f1f77bcf86cd799439011", RoleStudent)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := issuer.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "507f1f77bcf86cd799439011" {
		t.Errorf("userId = %q", claims.UserID)
	}
	if claims.Role != RoleStudent {
		t.Errorf("role = %q", claims.Role)
	}
}

func TestAccessAndRefreshSecretsAreSeparate(t *testing.T) {
	issuer := testIssuer(time.Hour, 7*24*time.Hour)

	access, err := issuer.GenerateAccessToken("id", RoleAdmin)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := issuer.ParseRefreshToken(access); err == nil {
		t.Error("access token verified with refresh secret")
	}

	refresh, err := issuer.GenerateRefreshToken("id", RoleAdmin)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := issuer.ParseAccessToken(refresh); err == nil {
		t.Error("refresh token verified with access secret")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	issuer := testIssuer(-time.Minute, -time.Minute)

	token, err := issuer.GenerateAccessToken("id", RoleTeacher)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := issuer.ParseAccessToken(token); err == nil {
		t.Error("expired token accepted")
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	issuer := testIssuer(time.Hour, time.Hour)

	token, err := issuer.GenerateAccessToken("id", RoleStudent)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %d parts", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	if _, err := issuer.ParseAccessToken(tampered); err == nil {
		t.Error("tampered token accepted")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("admin123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "admin123" {
		t.Fatal("password stored in plaintext")
	}
	if !CheckPasswordHash("admin123", hash) {
		t.Error("correct password rejected")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("wrong password accepted")
	}
}

func TestResetTokenDigest(t *testing.T) {
	raw, digest, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if raw == "" || digest == "" {
		t.Fatal("empty token or digest")
	}
	if raw == digest {
		t.Error("raw token equals stored digest")
	}
	if HashResetToken(raw) != digest {
		t.Error("digest does not match the raw token")
	}

	raw2, digest2, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if raw == raw2 || digest == digest2 {
		t.Error("consecutive tokens are identical")
	}
}

func TestNormalizeEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"John@X.com", "john@x.com"},
		{"  Admin@CMS.COM ", "admin@cms.com"},
		{"already@lower.com", "already@lower.com"},
	}
	for _, tc := range cases {
		if got := NormalizeEmail(tc.in); got != tc.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	// A mixed-case login must resolve to the same key the create path stored.
	stored := NormalizeEmail("John.Doe@Campus.edu")
	if NormalizeEmail("JOHN.DOE@CAMPUS.EDU") != stored {
		t.Error("lookup key differs from stored key for the same address")
	}
}

func TestFullName(t *testing.T) {
	u := &User{FirstName: "Ada", LastName: "Lovelace"}
	if got := FullName(u); got != "Ada Lovelace" {
		t.Errorf("FullName = %q", got)
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []Role{RoleStudent, RoleTeacher, RoleAdmin} {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%q) = false", role)
		}
	}
	if ValidRole(Role("PRINCIPAL")) {
		t.Error("unknown role accepted")
	}
}
