// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/Shiki0138/sms-sub003/config"
	"github.com/Shiki0138/sms-sub003/internal/domain/entity"
	domainerrors "github.com/Shiki0138/sms-sub003/internal/domain/errors"
	"github.com/Shiki0138/sms-sub003/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const (
	tokenIssuer   = "sms-auth"
	tokenAudience = "sms-api"

	defaultAccessTTL  = time.Minute * 15
	defaultRefreshTTL = time.Hour * 24 * 7

	refreshSecretBytes = 64
)

// jwtService is a concrete implementation of the TokenService interface.
// Access tokens are HS256-signed JWTs; refresh tokens are opaque random
// secrets whose SHA-256 hash is what the persistence layer sees.
type jwtService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	accessTTL := defaultAccessTTL
	refreshTTL := defaultRefreshTTL
	if cfg.Auth != nil {
		if cfg.Auth.AccessTokenTTL > 0 {
			accessTTL = cfg.Auth.AccessTokenTTL
		}
		if cfg.Auth.RefreshTokenTTL > 0 {
			refreshTTL = cfg.Auth.RefreshTokenTTL
		}
	}

	return &jwtService{
		secret:     []byte(cfg.SecretKey.Access),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// IssueAccessToken creates a signed access token binding identity, tenant,
// role and email, with issuer/audience and a short expiry.
func (s *jwtService) IssueAccessToken(identity *entity.Identity) (string, int64, error) {
	now := time.Now()
	claims := &service.AccessClaims{
		IdentityID: identity.ID,
		TenantID:   identity.TenantID,
		Email:      identity.Email,
		Role:       identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			Subject:   identity.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", 0, errors.Wrap(err, "failed to sign access token")
	}

	return signed, int64(s.accessTTL.Seconds()), nil
}

// VerifyAccessToken validates signature, issuer, audience and expiry.
// Every failure collapses to ErrTokenInvalid so callers cannot tell which
// check rejected the token.
func (s *jwtService) VerifyAccessToken(tokenString string) (*service.AccessClaims, error) {
	claims := &service.AccessClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, domainerrors.ErrTokenInvalid
	}

	return claims, nil
}

// NewRefreshSecret generates a cryptographically random opaque secret and
// the SHA-256 hash under which it is stored. The plaintext is returned once
// and never persisted.
func (s *jwtService) NewRefreshSecret() (string, string, error) {
	buf := make([]byte, refreshSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", errors.Wrap(err, "failed to generate refresh secret")
	}

	plaintext := hex.EncodeToString(buf)

	return plaintext, s.HashSecret(plaintext), nil
}

// HashSecret derives the storage hash for a client-presented secret.
func (s *jwtService) HashSecret(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))

	return hex.EncodeToString(sum[:])
}

// AccessTokenTTL returns the configured access token lifetime.
func (s *jwtService) AccessTokenTTL() time.Duration {
	return s.accessTTL
}

// RefreshTokenTTL returns the configured refresh token lifetime.
func (s *jwtService) RefreshTokenTTL() time.Duration {
	return s.refreshTTL
}
