package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/footballzones-backend/pkg/config"
	"github.com/angelmondragon/footballzones-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:           "access-secret-0123456789",
		RefreshSecret:    "refresh-secret-0123456789",
		Issuer:           "footballzones-api",
		Audience:         "footballzones-web",
		AccessExpiresIn:  "30m",
		RefreshExpiresIn: "7d",
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()
	userID := uuid.New()

	token, err := MintAccessToken(cfg, now, AccessTokenPayload{
		UserID: userID,
		Email:  "coach@example.com",
		Role:   enums.RoleCoach,
		Name:   "Coach",
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user_id %s, got %s", userID, claims.UserID)
	}
	if claims.Role != enums.RoleCoach || claims.Email != "coach@example.com" || claims.Name != "Coach" {
		t.Fatalf("unexpected identity claims %+v", claims)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}
	if claims.ID == "" {
		t.Fatal("expected jti to be set")
	}

	exp := now.Add(30 * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v", exp, claims.ExpiresAt.Time)
	}
}

func TestParseAccessTokenInvalidSignature(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New(), Role: enums.RolePlayer})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	other := cfg
	other.Secret = "another-secret-0123456789"
	if _, err := ParseAccessToken(other, token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseAccessTokenExpired(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now().Add(-time.Hour), AccessTokenPayload{UserID: uuid.New(), Role: enums.RoleFree})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	if _, err := ParseAccessToken(cfg, token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseAccessTokenMalformed(t *testing.T) {
	if _, err := ParseAccessToken(testJWTConfig(), "not-a-jwt"); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestParseAccessTokenWrongAudience(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New(), Role: enums.RoleFree})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	other := cfg
	other.Audience = "someone-else"
	if _, err := ParseAccessToken(other, token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for audience mismatch, got %v", err)
	}
}

func TestParseAccessTokenRejectsOtherAlgorithms(t *testing.T) {
	cfg := testJWTConfig()
	claims := AccessTokenClaims{
		UserID: uuid.New(),
		Role:   enums.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseAccessToken(cfg, token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for HS512, got %v", err)
	}
}

func TestMintAccessTokenInvalidRole(t *testing.T) {
	if _, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{UserID: uuid.New()}); err == nil {
		t.Fatal("expected invalid role error")
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()
	token, err := MintRefreshToken(cfg, time.Now(), RefreshTokenPayload{UserID: userID, TokenVersion: 3})
	if err != nil {
		t.Fatalf("mint refresh token: %v", err)
	}

	claims, err := ParseRefreshToken(cfg, token)
	if err != nil {
		t.Fatalf("parse refresh token: %v", err)
	}
	if claims.UserID != userID || claims.TokenVersion != 3 {
		t.Fatalf("unexpected refresh claims %+v", claims)
	}

	if _, err := ParseAccessToken(cfg, token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("refresh token must not verify as access token, got %v", err)
	}
}

func TestParseExpiry(t *testing.T) {
	cases := map[string]time.Duration{
		"30s":                  30 * time.Second,
		"15m":                  15 * time.Minute,
		"2h":                   2 * time.Hour,
		"7d":                   7 * 24 * time.Hour,
		"":                     time.Minute,
		"15":                   time.Minute,
		"xm":                   time.Minute,
		"10w":                  time.Minute,
		"-5m":                  time.Minute,
		"106751d":              106751 * 24 * time.Hour,
		"9999999999d":          time.Minute,
		"9223372036854775807s": time.Minute,
	}
	for input, want := range cases {
		if got := ParseExpiry(input, time.Minute); got != want {
			t.Fatalf("ParseExpiry(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestExtractBearer(t *testing.T) {
	if token, ok := ExtractBearer("Bearer abc.def"); !ok || token != "abc.def" {
		t.Fatalf("unexpected result %q %v", token, ok)
	}
	for _, header := range []string{"", "bearer abc", "Basic abc", "Bearer ", "Bearerabc", "  Bearer abc"} {
		if _, ok := ExtractBearer(header); ok {
			t.Fatalf("expected %q to be rejected", header)
		}
	}
}
